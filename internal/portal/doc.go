// Package portal is the typed client for the AppForge portal management
// API: organizations, applications, credentials, and redirect URIs.
//
// The portal's business logic is opaque to this process; the client only
// knows the fixed endpoint paths and the response shapes. Authentication
// concerns (bearer injection, re-login on 401) live in the request gateway
// in client.go so individual operations stay plain data calls.
package portal
