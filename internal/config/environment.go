package config

import (
	"os"
	"strings"

	"portalmcp/pkg/logging"
)

// Environment variables controlling portal URL resolution.
//
// EnvEnvironment selects a named deployment preset. EnvPortalURL overrides
// the resolved URL directly and takes precedence over the preset.
const (
	EnvEnvironment = "APPFORGE_ENV"
	EnvPortalURL   = "APPFORGE_PORTAL_URL"
)

// Named deployment presets.
const (
	EnvironmentProduction = "production"
	EnvironmentStaging    = "staging"
	EnvironmentLocal      = "local"
)

// portalURLs maps each deployment preset to its portal base URL.
var portalURLs = map[string]string{
	EnvironmentProduction: "https://portal.appforge.dev",
	EnvironmentStaging:    "https://portal.staging.appforge.dev",
	EnvironmentLocal:      "http://localhost:3000",
}

// ResolvePortalURL determines the portal base URL from the configured values
// and the process environment. fileEnv and fileURL are the values read from
// config.yaml and may be empty.
//
// Resolution order for the URL: APPFORGE_PORTAL_URL, config.yaml portalUrl,
// the preset selected by APPFORGE_ENV (or config.yaml environment), and
// finally the production preset.
func ResolvePortalURL(fileEnv, fileURL string) (environment, url string) {
	environment = strings.ToLower(strings.TrimSpace(os.Getenv(EnvEnvironment)))
	if environment == "" {
		environment = fileEnv
	}
	if environment == "" {
		environment = EnvironmentProduction
	}

	presetURL, ok := portalURLs[environment]
	if !ok {
		logging.Warn("Config", "Unknown environment %q, falling back to %s", environment, EnvironmentProduction)
		environment = EnvironmentProduction
		presetURL = portalURLs[EnvironmentProduction]
	}

	url = presetURL
	if fileURL != "" {
		url = fileURL
	}
	if override := strings.TrimSpace(os.Getenv(EnvPortalURL)); override != "" {
		url = override
	}
	url = strings.TrimRight(url, "/")

	return environment, url
}
