// Package supabase talks to a hosted Supabase project: GoTrue for auth and
// PostgREST for rows. Row-level security decides what each caller may read,
// so data calls forward the caller's access token when one is present.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pustakbhandar/internal/backend"
	apperrors "pustakbhandar/internal/errors"
	"pustakbhandar/internal/model"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"

	singleObjectMediaType = "application/vnd.pgrst.object+json"
)

// Config locates the project.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Provider implements backend.Provider over HTTP.
type Provider struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ backend.Provider = (*Provider)(nil)

// New creates a provider. A zero Timeout means ten seconds.
func New(cfg Config, logger zerolog.Logger) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "supabase").Logger(),
	}
}

// tokenResponse is GoTrue's session payload.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	User         *userDTO `json:"user"`
}

type userDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (u *userDTO) identity() *backend.Identity {
	if u == nil {
		return nil
	}
	return &backend.Identity{ID: u.ID, Email: u.Email}
}

func (t *tokenResponse) session() *backend.Session {
	s := &backend.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         t.User.identity(),
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return s
}

func (p *Provider) SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	var resp tokenResponse
	if err := p.do(ctx, http.MethodPost, authPath+"/token?grant_type=password", body, "", nil, endpointPassword, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// SignUp stores the full name in user metadata; a database trigger on the
// project creates the matching profiles row.
func (p *Provider) SignUp(ctx context.Context, req backend.SignUpRequest) (*backend.Session, error) {
	body := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data":     map[string]string{"full_name": req.FullName},
	}
	var resp tokenResponse
	if err := p.do(ctx, http.MethodPost, authPath+"/signup", body, "", nil, endpointSignUp, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	return resp.session(), nil
}

func (p *Provider) SignOut(ctx context.Context, accessToken, _ string) error {
	if accessToken == "" {
		return nil
	}
	return p.do(ctx, http.MethodPost, authPath+"/logout", nil, accessToken, nil, endpointSession, nil)
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (*backend.Identity, error) {
	if accessToken == "" {
		return nil, apperrors.ErrUnauthorized
	}
	var user userDTO
	if err := p.do(ctx, http.MethodGet, authPath+"/user", nil, accessToken, nil, endpointSession, &user); err != nil {
		return nil, err
	}
	return user.identity(), nil
}

func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp tokenResponse
	if err := p.do(ctx, http.MethodPost, authPath+"/token?grant_type=refresh_token", body, "", nil, endpointSession, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

func (p *Provider) ListBooks(ctx context.Context) ([]model.Book, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")

	books := []model.Book{}
	if err := p.rest(ctx, http.MethodGet, "books", query, nil, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (p *Provider) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+userID.String())

	var profile model.Profile
	headers := http.Header{"Accept": []string{singleObjectMediaType}}
	if err := p.rest(ctx, http.MethodGet, "profiles", query, headers, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *Provider) ListCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	query := url.Values{}
	query.Set("select", "*,books:book_id(*)")
	query.Set("user_id", "eq."+userID.String())

	items := []model.CartItem{}
	if err := p.rest(ctx, http.MethodGet, "cart_items", query, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type cartItemRow struct {
	UserID   uuid.UUID `json:"user_id"`
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

func (p *Provider) UpsertCartItem(ctx context.Context, item model.CartItem, onConflict string) error {
	if strings.TrimSpace(onConflict) == "" {
		return fmt.Errorf("upsert cart item: empty conflict target")
	}
	query := url.Values{}
	query.Set("on_conflict", onConflict)
	headers := http.Header{"Prefer": []string{"resolution=merge-duplicates,return=minimal"}}

	row := cartItemRow{UserID: item.UserID, BookID: item.BookID, Quantity: item.Quantity}
	return p.rest(ctx, http.MethodPost, "cart_items", query, headers, row, nil)
}

func (p *Provider) rest(ctx context.Context, method, table string, query url.Values, headers http.Header, body, out any) error {
	token, _ := backend.AccessTokenFromContext(ctx)
	path := restPath + "/" + table + "?" + query.Encode()
	return p.do(ctx, method, path, body, token, headers, endpointData, out)
}

// do sends one request. The bearer falls back to the anon key, which is what
// an anonymous caller presents to row-level security.
func (p *Provider) do(ctx context.Context, method, path string, body any, bearer string, headers http.Header, at endpoint, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if bearer == "" {
		bearer = p.anonKey
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		req.Header[key] = values
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", apperrors.ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, data, at)
		p.logger.Debug().Int("status", resp.StatusCode).Str("code", apiErr.Code).Str("path", path).Msg("request rejected")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
