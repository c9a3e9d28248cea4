package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pustakbhandar/internal/cache"
)

// ErrRefreshTokenUnknown means the refresh token was never issued here, was
// spent by sign-out, or has expired.
var ErrRefreshTokenUnknown = errors.New("refresh token not registered")

// TokenStoreInterface tracks which storefront sessions are live. Refresh
// tokens are registered at sign-in; access tokens are revoked at sign-out.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uuid.UUID, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps the session registry in Redis under the storefront:session namespace.
// Without Redis no refresh token is ever found and nothing is revoked.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a token store over cache, which may be nil.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// sessionRecord is what a live refresh token resolves to.
type sessionRecord struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

func refreshKey(tokenID string) string { return "storefront:session:refresh:" + tokenID }
func revokedKey(tokenID string) string { return "storefront:session:revoked:" + tokenID }

// StoreRefreshToken registers a refresh token for ttl.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	record, err := json.Marshal(sessionRecord{AccountID: userID, Email: email})
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	return s.cache.Set(ctx, refreshKey(tokenID), record, ttl)
}

// GetRefreshToken resolves a registered refresh token to its account.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	raw, _ := s.cache.Get(ctx, refreshKey(tokenID))
	if raw == nil {
		return uuid.Nil, "", ErrRefreshTokenUnknown
	}

	var record sessionRecord
	if err := json.Unmarshal(raw, &record); err != nil || record.AccountID == uuid.Nil {
		return uuid.Nil, "", fmt.Errorf("%w: corrupt session record", ErrRefreshTokenUnknown)
	}
	return record.AccountID, record.Email, nil
}

// DeleteRefreshToken spends a refresh token.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshKey(tokenID))
}

// BlacklistAccessToken revokes an access token for the rest of its lifetime.
// An already expired token needs no entry.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKey(tokenID), []byte{1}, remaining)
}

// IsAccessTokenBlacklisted reports whether sign-out revoked the access token.
// An unreachable Redis reads as not revoked.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revokedKey(tokenID)), nil
}
