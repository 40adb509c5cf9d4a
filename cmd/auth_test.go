package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"portalmcp/internal/auth"
	"portalmcp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRuntime(t *testing.T) {
	t.Setenv(config.EnvEnvironment, "staging")
	t.Setenv(config.EnvPortalURL, "")

	rt, err := buildRuntime(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://portal.staging.appforge.dev", rt.cfg.PortalURL)
	assert.Equal(t, config.EnvironmentStaging, rt.cfg.Environment)
	assert.NotNil(t, rt.store)
	assert.NotNil(t, rt.authenticator)
	assert.NotNil(t, rt.portal)
}

func TestRunAuthLogout(t *testing.T) {
	t.Setenv(config.EnvEnvironment, "local")

	configPath := t.TempDir()
	authConfigPath = configPath
	defer func() { authConfigPath = config.GetDefaultConfigPathOrPanic() }()

	// Logout with nothing stored must succeed.
	require.NoError(t, runAuthLogout(authLogoutCmd, nil))

	// Seed a session, then logout and check it is gone.
	store := auth.NewSessionStore(filepath.Join(configPath, config.SessionFileName))
	require.NoError(t, store.Save(&auth.Session{
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        auth.User{ID: "usr_1", Email: "dev@example.com"},
	}))

	require.NoError(t, runAuthLogout(authLogoutCmd, nil))

	fresh := auth.NewSessionStore(filepath.Join(configPath, config.SessionFileName))
	assert.Nil(t, fresh.Load())
}
