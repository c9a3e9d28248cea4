// Package local is a self-hosted backend: rows live in a SQL database behind
// GORM and identities are issued by service.AuthService.
package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pustakbhandar/internal/backend"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
	"pustakbhandar/internal/repository"
	"pustakbhandar/internal/service"
)

// Provider implements backend.Provider on top of the repositories.
type Provider struct {
	auth     service.AuthService
	books    repository.BookRepository
	profiles repository.ProfileRepository
	cart     repository.CartItemRepository
	logger   zerolog.Logger
}

var _ backend.Provider = (*Provider)(nil)

// New wires a provider.
func New(
	authService service.AuthService,
	books repository.BookRepository,
	profiles repository.ProfileRepository,
	cart repository.CartItemRepository,
	logger zerolog.Logger,
) *Provider {
	return &Provider{
		auth:     authService,
		books:    books,
		profiles: profiles,
		cart:     cart,
		logger:   logger.With().Str("component", "local_backend").Logger(),
	}
}

func newSession(tokens *service.Tokens, account *model.Account) *backend.Session {
	return &backend.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		User:         &backend.Identity{ID: account.ID, Email: account.Email},
	}
}

func (p *Provider) SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	tokens, account, err := p.auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, translate(err)
	}
	return newSession(tokens, account), nil
}

// SignUp registers the account and signs it in right away; there is no
// confirmation step.
func (p *Provider) SignUp(ctx context.Context, req backend.SignUpRequest) (*backend.Session, error) {
	if _, err := p.auth.Register(ctx, req.Email, req.Password, req.FullName); err != nil {
		return nil, translate(err)
	}
	tokens, account, err := p.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, translate(err)
	}
	return newSession(tokens, account), nil
}

func (p *Provider) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	return translate(p.auth.Logout(ctx, accessToken, refreshToken))
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (*backend.Identity, error) {
	account, err := p.auth.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, translate(err)
	}
	return &backend.Identity{ID: account.ID, Email: account.Email}, nil
}

func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error) {
	tokens, account, err := p.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, translate(err)
	}
	return newSession(tokens, account), nil
}

func (p *Provider) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := p.books.ListNewestFirst(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return books, nil
}

// GetProfile is readable by anyone, like a public profiles table.
func (p *Provider) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := p.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

// ListCartItems only returns rows owned by the caller's token.
func (p *Provider) ListCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	if err := p.authorize(ctx, userID); err != nil {
		return nil, err
	}
	items, err := p.cart.FindByUserWithBooks(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (p *Provider) UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) error {
	if err := p.authorize(ctx, item.UserID); err != nil {
		return err
	}
	row := model.CartItem{UserID: item.UserID, BookID: item.BookID, Quantity: item.Quantity}
	if err := p.cart.Upsert(ctx, &row, onConflict); err != nil {
		return translate(err)
	}
	return nil
}

// authorize plays the part of a row-level policy: the token in ctx must belong to owner.
func (p *Provider) authorize(ctx context.Context, owner uuid.UUID) error {
	token, ok := backend.AccessTokenFromContext(ctx)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	account, err := p.auth.Authenticate(ctx, token)
	if err != nil {
		return translate(err)
	}
	if account.ID != owner {
		p.logger.Warn().Str("caller", account.ID.String()).Str("owner", owner.String()).Msg("cart access denied")
		return fmt.Errorf("%w: cart belongs to another user", apperrors.ErrUnauthorized)
	}
	return nil
}

// translate maps storage errors onto the shared taxonomy. Errors already
// carrying a sentinel pass through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", apperrors.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	case apperrors.Outcome(err) != "error":
		return err
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
}
