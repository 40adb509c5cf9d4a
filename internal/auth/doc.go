// Package auth implements login against the AppForge portal using the
// OAuth 2.0 Device Authorization Grant (RFC 8628) and manages the resulting
// session.
//
// The SessionStore persists a single session as an owner-only JSON file
// under the user config directory, mirrored by an in-process cache. The
// Authenticator runs the three-step device flow: request a device code,
// send the user to the browser to approve it, and poll the token endpoint
// until approval, denial, or timeout. A successful poll is followed by an
// identity-verification call before the session is persisted.
//
// There is no refresh_token renewal: when a session expires or the portal
// rejects its token, re-authentication restarts the device flow.
package auth
