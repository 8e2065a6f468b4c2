package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfigAppliesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
dev_routes = true

[database]
driver = "postgres"
dsn = "postgres://localhost/leadboard?sslmode=disable"

[jwt]
secret = "0123456789abcdef0123"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.DevRoutes)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit, "defaults survive partial files")
	assert.Equal(t, 100, cfg.Server.RateLimit)
}

func TestLoadConfigMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("LEADBOARD_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("LEADBOARD_PORT", "4000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "env-secret-0123456789", cfg.JWT.Secret)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("LEADBOARD_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("LEADBOARD_PORT", "eighty")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.JWT.Secret = "0123456789abcdef"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Pagination.MaxLimit = 5
	assert.Error(t, cfg.Validate())
}

func TestSecurityHeaders(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.GetSecurityHeaders())

	cfg.Server.CookieSecure = true
	assert.Contains(t, cfg.GetSecurityHeaders(), "Strict-Transport-Security")
}
