package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.SearchDebounce)
	assert.Equal(t, "http://localhost:3001", cfg.Client.APIURL)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, float64(10), cfg.Client.RateLimit)
	assert.Equal(t, 10, cfg.Client.RateBurst)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadMissingDefaultPathUsesDefaults(t *testing.T) {
	t.Cleanup(xdg.Reload)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	assert.Equal(t, filepath.Join(dir, "burgersocial", "config.yaml"), DefaultConfigPath())

	cfg, err := Load("")
	require.NoError(t, err)
	want, err := Default()
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4000\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "unset keys keep their defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0o644))

	t.Setenv("BURGERSOCIAL_PORT", "5000")
	t.Setenv("BURGERSOCIAL_API_URL", "http://api.local:5000")
	t.Setenv("BURGERSOCIAL_REDIS_ADDR", "localhost:6379")
	t.Setenv("BURGERSOCIAL_SEARCH_DEBOUNCE", "50ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "http://api.local:5000", cfg.Client.APIURL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 50*time.Millisecond, cfg.Client.SearchDebounce)
	assert.Equal(t, 50*time.Millisecond, cfg.Server.LiveDebounce)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	t.Setenv("BURGERSOCIAL_PORT", "eighty")

	_, err := Load(path)
	assert.ErrorContains(t, err, "BURGERSOCIAL_PORT")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative debounce", func(c *Config) { c.Client.SearchDebounce = -time.Second }, "debounce"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"zero burst", func(c *Config) { c.Server.RateBurst = 0 }, "rate_burst"},
		{"negative client rate", func(c *Config) { c.Client.RateLimit = -1 }, "client.rate_limit"},
		{"zero client burst", func(c *Config) { c.Client.RateBurst = 0 }, "client.rate_burst"},
		{"bad scheme", func(c *Config) { c.Client.APIURL = "ftp://x" }, "api_url"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Server.Port = 4321

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
