package handler

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/storefront"
)

// Storefront builds the per-request objects every page handler needs.
type Storefront struct {
	provider backend.Provider
	cookies  CookieOptions
	logger   zerolog.Logger
}

// NewStorefront creates the shared handler state.
func NewStorefront(provider backend.Provider, cookies CookieOptions, logger zerolog.Logger) *Storefront {
	return &Storefront{provider: provider, cookies: cookies, logger: logger}
}

// openPage mounts a page for the browser behind c. The caller must Close it.
func (s *Storefront) openPage(c echo.Context, ui storefront.UI) (*storefront.Page, error) {
	logger := s.logger.With().Str("request_id", requestID(c)).Logger()
	client := backend.New(s.provider, newCookieStorage(c, s.cookies), logger)
	page := storefront.NewPage(client, ui, logger)
	if err := page.Mount(c.Request().Context()); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}

// openBearerPage mounts a page for an API caller holding accessToken.
func (s *Storefront) openBearerPage(c echo.Context, accessToken string, ui storefront.UI) (*storefront.Page, error) {
	logger := s.logger.With().Str("request_id", requestID(c)).Logger()
	storage := backend.NewMemoryStorage(&backend.Session{AccessToken: accessToken})
	page := storefront.NewPage(backend.New(s.provider, storage, logger), ui, logger)
	if err := page.Mount(c.Request().Context()); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// indexURL links to the catalog, optionally filtered and with the auth dialog open.
func indexURL(genre string, showAuth bool) string {
	query := url.Values{}
	if genre != "" && genre != storefront.GenreAll {
		query.Set("genre", genre)
	}
	if showAuth {
		query.Set("auth", "1")
	}
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query.Encode()
}

// safeReturn accepts only local paths.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
