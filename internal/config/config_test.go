package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.ServerPort)
	assert.Equal(t, BackendLocal, cfg.Backend.Mode)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 10*time.Second, cfg.Backend.HTTPTimeout)
	assert.Equal(t, "change-me", cfg.TokenSecret())
}

func TestLoadRemoteMode(t *testing.T) {
	t.Setenv("STOREFRONT_BACKEND_MODE", " Remote ")
	t.Setenv("STOREFRONT_SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("STOREFRONT_SUPABASE_ANON_KEY", "anon")
	t.Setenv("STOREFRONT_SUPABASE_JWT_SECRET", "project-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, cfg.Backend.Mode)
	assert.Equal(t, "project-secret", cfg.TokenSecret())
}

func TestLoadRemoteModeRequiresSupabase(t *testing.T) {
	t.Setenv("STOREFRONT_BACKEND_MODE", "remote")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("STOREFRONT_BACKEND_MODE", "firebase")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown backend mode")
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("STOREFRONT_BACKEND_HTTP_TIMEOUT", "3s")
	t.Setenv("STOREFRONT_AUTH_RATE_BURST", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Backend.HTTPTimeout)
	assert.Equal(t, 2, cfg.RateLimit.AuthBurst)
}
