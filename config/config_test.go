package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "round", cfg.Battle.Mode)
	assert.Equal(t, 100, cfg.Battle.CTThreshold)
	assert.Equal(t, 0.25, cfg.Battle.APCarry)
	assert.Equal(t, 30*time.Minute, cfg.Battle.SessionTTL)
	assert.Equal(t, float64(100), cfg.Security.RateLimitRPS)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 3000
  debug: true
  allowed_origins:
    - https://game.example.com
battle:
  mode: ct
  ct_threshold: 50
  session_ttl: 5m
security:
  rate_limit_rps: 10
  rate_limit_burst: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, []string{"https://game.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "ct", cfg.Battle.Mode)
	assert.Equal(t, 50, cfg.Battle.CTThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Battle.SessionTTL)
	assert.Equal(t, 20, cfg.Security.RateLimitBurst)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
