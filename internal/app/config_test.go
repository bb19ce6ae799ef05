package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/hootsweet/internal/tokenstorage"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[client]
id = "file-id"
secret = "file-secret"
timeout = "10s"

[auth]
storage = "keyring"

[log]
level = "debug"
`), 0o600))

	cfg, err := LoadConfig(path, map[string]any{"log.format": "json"}, environ(
		"HOOTSWEET_CLIENT__SECRET=env-secret",
		"HOOTSWEET_CLIENT__SCOPES=offline,extra",
		"HOOTSWEET_TOKEN={\"access_token\":\"ignored\"}",
		"UNRELATED=1",
	))
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.Client.ID)
	assert.Equal(t, "env-secret", cfg.Client.Secret)
	assert.Equal(t, []string{"offline", "extra"}, cfg.Client.Scopes)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Client.ExpirySkew)
	assert.Equal(t, "http://localhost:8000/", cfg.Client.RedirectURI)
	assert.Equal(t, "https://platform.hootsuite.com", cfg.Client.BaseURL)
	assert.Equal(t, TokenStorageTypeKeyring, cfg.Auth.Storage)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	store, err := cfg.Auth.NewTokenStore()
	require.NoError(t, err)
	assert.IsType(t, &tokenstorage.KeyringStore{}, store)
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil, environ())
	require.Error(t, err)

	cfg, err := LoadConfig("", map[string]any{"client.id": "id", "client.secret": "secret"}, environ())
	require.NoError(t, err)
	assert.Equal(t, TokenStorageTypeFile, cfg.Auth.Storage)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]any{
		"storage":  {"auth.storage": "s3"},
		"level":    {"log.level": "verbose"},
		"exporter": {"log.exporter": "zipkin"},
		"redirect": {"client.redirect_uri": "not a url"},
	}

	for name, override := range tests {
		t.Run(name, func(t *testing.T) {
			override["client.id"] = "id"
			override["client.secret"] = "secret"
			_, err := LoadConfig("", override, environ())
			require.Error(t, err)
		})
	}
}
