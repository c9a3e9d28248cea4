package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pustakbhandar/internal/auth"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
	"pustakbhandar/internal/repository"
)

const bcryptCost = 10

// Tokens is the credential pair handed to a signed-in browser.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService handles authentication operations for the self-hosted backend.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*model.Account, error)
	Login(ctx context.Context, email, password string) (*Tokens, *model.Account, error)
	Authenticate(ctx context.Context, accessToken string) (*model.Account, error)
	RefreshToken(ctx context.Context, refreshToken string) (*Tokens, *model.Account, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// Register creates a new account with hashed password and a customer profile.
func (s *authService) Register(ctx context.Context, email, password, fullName string) (*model.Account, error) {
	email = normalizeEmail(email)

	// Check if account already exists
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	profile := &model.Profile{Role: model.RoleCustomer}
	if name := strings.TrimSpace(fullName); name != "" {
		profile.FullName = &name
	}

	if err := s.accountRepo.CreateWithProfile(ctx, account, profile); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// Login authenticates an account and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*Tokens, *model.Account, error) {
	account, err := s.accountRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	_, accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Store refresh token in Redis
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, account.ID, account.Email, s.jwtService.RefreshTTL()); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: expiresAt}, account, nil
}

// Authenticate resolves a live access token to its account.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.Account, error) {
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if claims.Role != auth.RoleAuthenticated {
		return nil, fmt.Errorf("%w: not an access token", apperrors.ErrUnauthorized)
	}

	revoked, err := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", apperrors.ErrUnauthorized)
	}

	userID, _ := claims.UserID()
	account, err := s.accountRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account gone", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// RefreshToken validates a refresh token and returns a new access token.
// The refresh token itself is kept until it expires or the user signs out.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*Tokens, *model.Account, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return nil, nil, fmt.Errorf("%w: invalid or expired refresh token", apperrors.ErrUnauthorized)
	}

	// Verify token exists in Redis
	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: refresh token not registered", apperrors.ErrUnauthorized)
	}

	userID, _ := claims.UserID()
	if storedUserID != userID || storedEmail != claims.Email {
		return nil, nil, fmt.Errorf("%w: refresh token mismatch", apperrors.ErrUnauthorized)
	}

	account, err := s.accountRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: account gone", apperrors.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("find account: %w", err)
	}

	_, accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: expiresAt}, account, nil
}

// Logout revokes the access token for its remaining lifetime and forgets the refresh token.
// Either token may be empty; unparsable tokens are skipped.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if claims, err := s.jwtService.ValidateToken(accessToken); err == nil && claims.ExpiresAt != nil {
			if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				return fmt.Errorf("revoke access token: %w", err)
			}
		}
	}

	if refreshToken != "" {
		if tokenID, err := s.jwtService.ExtractTokenID(refreshToken); err == nil {
			if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
				return fmt.Errorf("delete refresh token: %w", err)
			}
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
