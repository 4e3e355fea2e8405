package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fyers-trader/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"FYERS_CLIENT_ID", "FYERS_SECRET_KEY", "FYERS_REDIRECT_URI",
		"FYERS_ACCESS_TOKEN", "FYERS_REFRESH_TOKEN", "FYERS_PIN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadCreatesTemplates(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "credentials.toml"))

	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Equal(t, "https://api-t1.fyers.in/api/v3", cfg.API.BaseURL)
	assert.Equal(t, "https://api-t1.fyers.in/data", cfg.API.DataBaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, filepath.Join(dir, "candles.db"), cfg.Store.Path)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadReadsFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
base_url = "http://127.0.0.1:8080/api/v3"
timeout = "5s"

[log]
level = "debug"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte(`
[fyers]
client_id = "XB12345-100"
secret_key = "secret"
access_token = "token"
`), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/api/v3", cfg.API.BaseURL)
	assert.Equal(t, "https://api-t1.fyers.in/data", cfg.API.DataBaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "XB12345-100", cfg.Credentials.Fyers.ClientID)
	assert.NoError(t, cfg.RequireSession())
	assert.NoError(t, cfg.RequireApp())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FYERS_CLIENT_ID", "ENV-100")
	t.Setenv("FYERS_ACCESS_TOKEN", "env-token")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ENV-100", cfg.Credentials.Fyers.ClientID)
	assert.Equal(t, "env-token", cfg.Credentials.Fyers.AccessToken)
}

func TestValidateRejectsBadURL(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
data_base_url = "ftp://example.com"
`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
}

func TestRequireSession(t *testing.T) {
	cfg := &Config{}
	assert.True(t, apperrors.Is(cfg.RequireSession(), apperrors.ErrNotAuthenticated))
	assert.True(t, apperrors.Is(cfg.RequireApp(), apperrors.ErrConfigInvalid))
}

func TestSaveTokens(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte(`
[fyers]
client_id = "XB12345-100"
secret_key = "secret"
`), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.SaveTokens("new-access", "new-refresh"))
	assert.Equal(t, "new-access", cfg.Credentials.Fyers.AccessToken)

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "XB12345-100", reloaded.Credentials.Fyers.ClientID)
	assert.Equal(t, "secret", reloaded.Credentials.Fyers.SecretKey)
	assert.Equal(t, "new-access", reloaded.Credentials.Fyers.AccessToken)
	assert.Equal(t, "new-refresh", reloaded.Credentials.Fyers.RefreshToken)
}
