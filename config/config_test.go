package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, CacheNone, cfg.CacheBackend)
	assert.Equal(t, 5, cfg.RateLimitCapacity)
	assert.Equal(t, time.Minute, cfg.RateLimitRefill)
	assert.Equal(t, 15*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.AdvisorTimeout)
	assert.Less(t, cfg.AdvisorTimeout, cfg.HTTPWriteTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_port: 9000
  log_level: debug
model:
  path: /models/logit.json
  format: logistic-json
cache:
  backend: memory
  ttl_seconds: 30
rate_limit:
  capacity: 20
`), 0o600))

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/models/logit.json", cfg.ModelPath)
	assert.Equal(t, "logistic-json", cfg.ModelFormat)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.RateLimitCapacity)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.HTTPPort = 0 }},
		{"no model", func(c *Config) { c.ModelPath = "" }},
		{"pickle model", func(c *Config) { c.ModelFormat = "pickle" }},
		{"unknown cache", func(c *Config) { c.CacheBackend = "memcached" }},
		{"zero capacity", func(c *Config) { c.RateLimitCapacity = 0 }},
		{"zero refill", func(c *Config) { c.RateLimitRefill = 0 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }},
		{"zero advisor timeout", func(c *Config) { c.AdvisorTimeout = 0 }},
		{"advisor outlives response", func(c *Config) {
			c.AdvisorTimeout = 30 * time.Second
			c.HTTPWriteTimeout = 15 * time.Second
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoad_MalformedEnv(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	for _, name := range []string{"HTTP_PORT", "CACHE_TTL_SECONDS", "RATE_LIMIT_CAPACITY", "ADVISOR_TIMEOUT_SECONDS"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "80a")

			_, err := Load(missing)
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_ZeroTTLDisablesExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache:
  backend: memory
  ttl_seconds: 0
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
}

func TestLoad_Timeouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  write_timeout_seconds: 20
advisor:
  timeout_seconds: 12
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.HTTPWriteTimeout)
	assert.Equal(t, 12*time.Second, cfg.AdvisorTimeout)

	t.Setenv("ADVISOR_TIMEOUT_SECONDS", "25")
	_, err = Load(path)
	assert.Error(t, err)
}
