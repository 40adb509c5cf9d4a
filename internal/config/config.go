package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portalmcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/portalmcp"
	configFileName = "config.yaml"

	// SessionFileName is the name of the persisted session document inside
	// the user config directory.
	SessionFileName = "session.json"
)

// OAuth client registration for the AppForge portal. These are public
// device-flow client values, not secrets.
const (
	DefaultClientID = "appforge-mcp"
	DefaultScope    = "portal:read portal:write"
)

// DefaultRequestTimeout bounds every individual HTTP call so a stalled
// network connection cannot hang a tool invocation indefinitely.
const DefaultRequestTimeout = 15 * time.Second

// Config holds the resolved runtime configuration for the portalmcp process.
type Config struct {
	// PortalURL is the base URL of the AppForge portal API.
	PortalURL string `yaml:"portalUrl,omitempty"`

	// Environment is the named deployment preset the URL was resolved from.
	Environment string `yaml:"environment,omitempty"`

	// ClientID identifies this client to the portal's OAuth endpoints.
	ClientID string `yaml:"clientId,omitempty"`

	// Scope is the OAuth scope requested during login.
	Scope string `yaml:"scope,omitempty"`

	// SessionPath is the location of the persisted session file.
	SessionPath string `yaml:"sessionPath,omitempty"`
}

// GetDefaultConfigPathOrPanic returns the user configuration directory,
// ~/.config/portalmcp.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// Load resolves the effective configuration. Precedence, lowest to highest:
// built-in defaults for the selected environment preset, the optional
// config.yaml in the user config directory, and finally the environment
// variable overrides described in environment.go.
func Load(configPath string) (Config, error) {
	cfg := Config{
		ClientID:    DefaultClientID,
		Scope:       DefaultScope,
		SessionPath: filepath.Join(configPath, SessionFileName),
	}

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	}

	env, url := ResolvePortalURL(cfg.Environment, cfg.PortalURL)
	cfg.Environment = env
	cfg.PortalURL = url

	return cfg, nil
}
