package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pustakbhandar/internal/config"
)

func TestBuildProviderLocalReturnsClosableCache(t *testing.T) {
	cfg := &config.Config{
		Backend: config.BackendConfig{Mode: config.BackendLocal},
		DB:      config.DBConfig{Driver: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
		JWT:     config.JWTConfig{Secret: "secret", AccessTTL: time.Minute, RefreshTTL: time.Hour},
	}

	provider, cacheClient, err := buildProvider(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, provider)
	require.NotNil(t, cacheClient)

	books, err := provider.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)

	require.NoError(t, cacheClient.Close())
	assert.ErrorContains(t, cacheClient.Ping(context.Background()), "closed")
}

func TestBuildProviderRemoteHasNoCache(t *testing.T) {
	cfg := &config.Config{
		Backend:  config.BackendConfig{Mode: config.BackendRemote, HTTPTimeout: time.Second},
		Supabase: config.SupabaseConfig{URL: "https://example.supabase.co", AnonKey: "anon"},
	}

	provider, cacheClient, err := buildProvider(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Nil(t, cacheClient)
	assert.NoError(t, cacheClient.Close())
}

func TestBuildProviderRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{
		Backend: config.BackendConfig{Mode: config.BackendLocal},
		DB:      config.DBConfig{Driver: "oracle", DSN: "x"},
	}

	_, _, err := buildProvider(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
