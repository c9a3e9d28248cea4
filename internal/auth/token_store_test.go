package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pustakbhandar/internal/cache"
)

func TestTokenStoreWithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "r1", uuid.New(), "sita@example.com", time.Hour))
	_, _, err := store.GetRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, ErrRefreshTokenUnknown)

	require.NoError(t, store.BlacklistAccessToken(ctx, "a1", time.Minute))
	revoked, err := store.IsAccessTokenBlacklisted(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, store.DeleteRefreshToken(ctx, "r1"))
}

func TestTokenStoreUnreachableRedisFailsSafe(t *testing.T) {
	client := cache.New("127.0.0.1:1", "", 0)
	defer client.Close()
	store := NewTokenStore(client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, _, err := store.GetRefreshToken(ctx, "r1")
	assert.ErrorIs(t, err, ErrRefreshTokenUnknown)
	revoked, err := store.IsAccessTokenBlacklisted(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStoreSkipsExpiredAccessTokens(t *testing.T) {
	assert.NoError(t, NewTokenStore(nil).BlacklistAccessToken(context.Background(), "a1", -time.Second))
}

func TestSessionKeysAreNamespaced(t *testing.T) {
	assert.Equal(t, "storefront:session:refresh:abc", refreshKey("abc"))
	assert.Equal(t, "storefront:session:revoked:abc", revokedKey("abc"))
	assert.NotEqual(t, refreshKey("abc"), revokedKey("abc"))
}
