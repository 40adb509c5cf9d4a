package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePortalURL_Defaults(t *testing.T) {
	t.Setenv(EnvEnvironment, "")
	t.Setenv(EnvPortalURL, "")

	env, url := ResolvePortalURL("", "")
	assert.Equal(t, EnvironmentProduction, env)
	assert.Equal(t, "https://portal.appforge.dev", url)
}

func TestResolvePortalURL_PresetSelection(t *testing.T) {
	t.Setenv(EnvEnvironment, "staging")
	t.Setenv(EnvPortalURL, "")

	env, url := ResolvePortalURL("", "")
	assert.Equal(t, EnvironmentStaging, env)
	assert.Equal(t, "https://portal.staging.appforge.dev", url)
}

func TestResolvePortalURL_DirectOverrideWinsOverPreset(t *testing.T) {
	t.Setenv(EnvEnvironment, "staging")
	t.Setenv(EnvPortalURL, "https://portal.internal.example.com/")

	env, url := ResolvePortalURL("", "")
	assert.Equal(t, EnvironmentStaging, env)
	assert.Equal(t, "https://portal.internal.example.com", url, "override takes precedence and trailing slash is trimmed")
}

func TestResolvePortalURL_UnknownEnvironmentFallsBack(t *testing.T) {
	t.Setenv(EnvEnvironment, "canary")
	t.Setenv(EnvPortalURL, "")

	env, url := ResolvePortalURL("", "")
	assert.Equal(t, EnvironmentProduction, env)
	assert.Equal(t, "https://portal.appforge.dev", url)
}

func TestResolvePortalURL_FileValuesUsedWhenEnvUnset(t *testing.T) {
	t.Setenv(EnvEnvironment, "")
	t.Setenv(EnvPortalURL, "")

	env, url := ResolvePortalURL("local", "")
	assert.Equal(t, EnvironmentLocal, env)
	assert.Equal(t, "http://localhost:3000", url)
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv(EnvEnvironment, "")
	t.Setenv(EnvPortalURL, "")

	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultClientID, cfg.ClientID)
	assert.Equal(t, DefaultScope, cfg.Scope)
	assert.Equal(t, EnvironmentProduction, cfg.Environment)
	assert.Equal(t, filepath.Join(dir, SessionFileName), cfg.SessionPath)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	t.Setenv(EnvEnvironment, "")
	t.Setenv(EnvPortalURL, "")

	dir := t.TempDir()
	content := "environment: staging\nclientId: custom-client\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "custom-client", cfg.ClientID)
	assert.Equal(t, EnvironmentStaging, cfg.Environment)
	assert.Equal(t, "https://portal.staging.appforge.dev", cfg.PortalURL)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("portalUrl: [not, a, string"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
