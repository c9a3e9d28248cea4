package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/storefront"
)

const (
	accessTokenCookie  = "sb-access-token"
	refreshTokenCookie = "sb-refresh-token"
	flashCookie        = "storefront-flash"

	flashMaxAge = 60 * time.Second
)

// CookieOptions controls the cookies a browser keeps its tokens in.
type CookieOptions struct {
	Secure bool
	Domain string
	MaxAge time.Duration
}

// cookieStorage keeps one browser's session in its cookies. Writes are
// visible to later loads within the same request.
type cookieStorage struct {
	c       echo.Context
	opts    CookieOptions
	loaded  bool
	session *backend.Session
}

var _ backend.SessionStorage = (*cookieStorage)(nil)

func newCookieStorage(c echo.Context, opts CookieOptions) *cookieStorage {
	return &cookieStorage{c: c, opts: opts}
}

func (s *cookieStorage) Load() *backend.Session {
	if !s.loaded {
		s.loaded = true
		access := cookieValue(s.c, accessTokenCookie)
		refresh := cookieValue(s.c, refreshTokenCookie)
		if access != "" || refresh != "" {
			s.session = &backend.Session{AccessToken: access, RefreshToken: refresh}
		}
	}
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

func (s *cookieStorage) Save(session *backend.Session) {
	if session == nil {
		s.Clear()
		return
	}
	s.loaded = true
	copied := *session
	s.session = &copied
	s.write(accessTokenCookie, session.AccessToken, s.opts.MaxAge)
	s.write(refreshTokenCookie, session.RefreshToken, s.opts.MaxAge)
}

func (s *cookieStorage) Clear() {
	s.loaded = true
	s.session = nil
	s.write(accessTokenCookie, "", -1)
	s.write(refreshTokenCookie, "", -1)
}

func (s *cookieStorage) write(name, value string, maxAge time.Duration) {
	s.c.SetCookie(newCookie(name, value, maxAge, s.opts))
}

// newCookie builds an HttpOnly cookie. A negative maxAge deletes it.
func newCookie(name, value string, maxAge time.Duration, opts CookieOptions) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 || value == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	return cookie
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setFlash carries toasts across a redirect.
func setFlash(c echo.Context, opts CookieOptions, toasts []storefront.Toast) {
	if len(toasts) == 0 {
		return
	}
	payload, err := json.Marshal(toasts)
	if err != nil {
		return
	}
	c.SetCookie(newCookie(flashCookie, base64.RawURLEncoding.EncodeToString(payload), flashMaxAge, opts))
}

// takeFlash reads and deletes the toasts left by the previous response.
func takeFlash(c echo.Context, opts CookieOptions) []storefront.Toast {
	value := cookieValue(c, flashCookie)
	if value == "" {
		return nil
	}
	c.SetCookie(newCookie(flashCookie, "", -1, opts))

	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var toasts []storefront.Toast
	if err := json.Unmarshal(payload, &toasts); err != nil {
		return nil
	}
	return toasts
}
