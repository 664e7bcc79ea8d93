package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresBackendURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_SECRET", "s3cret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9090")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9090")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("TOKEN_PATH", "")
	t.Setenv("DEV_FALLBACK", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:9090", cfg.BackendURL)
	assert.NotEmpty(t, cfg.TokenPath)
	assert.False(t, cfg.DevFallback)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://geo.example.com")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LISTEN_ADDR", ":3000")
	t.Setenv("TOKEN_PATH", "/tmp/tok")
	t.Setenv("DEV_FALLBACK", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/tok", cfg.TokenPath)
	assert.True(t, cfg.DevFallback)
}
