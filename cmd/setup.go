package cmd

import (
	"portalmcp/internal/auth"
	"portalmcp/internal/config"
	"portalmcp/internal/portal"
)

// runtime bundles the wired components every command operates on.
type runtime struct {
	cfg           config.Config
	store         *auth.SessionStore
	authenticator *auth.Authenticator
	portal        *portal.Client
}

// buildRuntime loads the configuration from configPath and wires the
// session store, the device-flow authenticator, and the portal client.
func buildRuntime(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store := auth.NewSessionStore(cfg.SessionPath)

	authenticator := auth.NewAuthenticator(auth.AuthenticatorConfig{
		PortalURL: cfg.PortalURL,
		ClientID:  cfg.ClientID,
		Scope:     cfg.Scope,
		Store:     store,
	})

	client := portal.NewClient(portal.ClientConfig{
		BaseURL:       cfg.PortalURL,
		Store:         store,
		Authenticator: authenticator,
	})

	return &runtime{
		cfg:           cfg,
		store:         store,
		authenticator: authenticator,
		portal:        client,
	}, nil
}
