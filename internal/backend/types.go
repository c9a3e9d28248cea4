// Package backend is the storefront's single handle on the managed backend.
// A Client issues auth and data calls through a Provider and keeps a
// browser's tokens in a SessionStorage; nothing else is cached.
package backend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pustakbhandar/internal/model"
)

// Identity is the authenticated user reference returned by the auth subsystem.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is a signed-in browser's credentials plus the identity they resolve to.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	User         *Identity `json:"user,omitempty"`
}

// AuthEvent names a session change delivered to listeners.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthListener receives session changes. session is nil after sign-out.
type AuthListener func(event AuthEvent, session *Session)

// Credentials signs an existing identity in.
type Credentials struct {
	Email    string
	Password string
}

// SignUpRequest creates an identity and its profile.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
}

// AuthProvider performs auth calls against a backend. It holds no per-browser state.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error)
	// SignUp returns a nil session when the backend requires confirmation first.
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	SignOut(ctx context.Context, accessToken, refreshToken string) error
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
}

// DataSource performs the query shapes the storefront uses.
// The caller's access token, if any, travels in ctx (see AccessTokenFromContext).
type DataSource interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) error
}

// Provider is a complete backend.
type Provider interface {
	AuthProvider
	DataSource
}

type accessTokenKey struct{}

// ContextWithAccessToken attaches the caller's access token for row-level authorization.
func ContextWithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the token attached by ContextWithAccessToken.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok && token != ""
}
