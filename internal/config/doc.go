// Package config resolves the runtime configuration for portalmcp.
//
// Configuration comes from three layers. Built-in defaults select the
// production portal. An optional config.yaml in ~/.config/portalmcp can pin
// an environment or portal URL. Environment variables override both:
// APPFORGE_ENV selects a named deployment preset (production, staging,
// local) and APPFORGE_PORTAL_URL overrides the resolved URL directly.
package config
