package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
)

// Client is the facade one browser uses to reach the backend.
type Client struct {
	provider  Provider
	storage   SessionStorage
	logger    zerolog.Logger
	listeners listeners
}

// New builds a client over provider keeping tokens in storage.
// A nil storage keeps them in memory.
func New(provider Provider, storage SessionStorage, logger zerolog.Logger) *Client {
	if storage == nil {
		storage = NewMemoryStorage(nil)
	}
	return &Client{
		provider: provider,
		storage:  storage,
		logger:   logger.With().Str("component", "backend").Logger(),
	}
}

// OnAuthStateChange registers listener for every later session change.
func (c *Client) OnAuthStateChange(listener AuthListener) *Subscription {
	return c.listeners.add(listener)
}

func (c *Client) listenerCount() int {
	return c.listeners.count()
}

// GetSession returns the stored session after verifying it with the provider.
// An expired access token is exchanged using the refresh token. A session the
// provider rejects is discarded and reported as nil, not as an error.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	stored := c.storage.Load()
	if stored == nil || (stored.AccessToken == "" && stored.RefreshToken == "") {
		return nil, nil
	}

	if stored.AccessToken != "" {
		user, err := c.provider.GetUser(ctx, stored.AccessToken)
		if err == nil {
			stored.User = user
			return stored, nil
		}
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, fmt.Errorf("get session: %w", err)
		}
	}

	if stored.RefreshToken == "" {
		c.discard()
		return nil, nil
	}

	refreshed, err := c.provider.RefreshSession(ctx, stored.RefreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.discard()
			return nil, nil
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	c.storage.Save(refreshed)
	c.logger.Debug().Str("user_id", userID(refreshed)).Msg("session refreshed")
	c.listeners.emit(EventTokenRefreshed, refreshed)
	return refreshed, nil
}

func (c *Client) discard() {
	c.storage.Clear()
	c.logger.Debug().Msg("stored session rejected, signed out")
	c.listeners.emit(EventSignedOut, nil)
}

// SignInWithPassword signs in and stores the resulting session.
func (c *Client) SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error) {
	session, err := c.provider.SignInWithPassword(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	c.storage.Save(session)
	c.listeners.emit(EventSignedIn, session)
	return session, nil
}

// SignUp creates an identity. When the provider signs it in right away the
// session is stored like SignInWithPassword does.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	session, err := c.provider.SignUp(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if session != nil {
		c.storage.Save(session)
		c.listeners.emit(EventSignedIn, session)
	}
	return session, nil
}

// SignOut revokes the stored session. Local state is cleared and listeners are
// told even when the provider call fails; that failure is still returned.
func (c *Client) SignOut(ctx context.Context) error {
	var err error
	if stored := c.storage.Load(); stored != nil {
		err = c.provider.SignOut(ctx, stored.AccessToken, stored.RefreshToken)
	}
	c.storage.Clear()
	c.listeners.emit(EventSignedOut, nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// FetchBooks returns the whole catalog, newest first.
func (c *Client) FetchBooks(ctx context.Context) ([]model.Book, error) {
	books, err := c.provider.ListBooks(c.authorized(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}
	return books, nil
}

// FetchProfile returns the profile row for userID, or an ErrNotFound error.
func (c *Client) FetchProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := c.provider.GetProfile(c.authorized(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// FetchCartItems returns userID's cart rows joined with their books.
func (c *Client) FetchCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := c.provider.ListCartItems(c.authorized(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("fetch cart items: %w", err)
	}
	return items, nil
}

// UpsertCartItem inserts item or updates the row matching onConflict.
func (c *Client) UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) error {
	if err := c.provider.UpsertCartItem(c.authorized(ctx), item, onConflict); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (c *Client) authorized(ctx context.Context) context.Context {
	if stored := c.storage.Load(); stored != nil {
		return ContextWithAccessToken(ctx, stored.AccessToken)
	}
	return ctx
}

func userID(session *Session) string {
	if session == nil || session.User == nil {
		return ""
	}
	return session.User.ID.String()
}
