package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"pustakbhandar/internal/auth"
	"pustakbhandar/internal/config"
	"pustakbhandar/internal/errors"
	"pustakbhandar/internal/handler"
	"pustakbhandar/internal/logger"
)

// Handlers groups the route targets.
type Handlers struct {
	Renderer echo.Renderer
	Page     *handler.PageHandler
	Auth     *handler.AuthHandler
	API      *handler.APIHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	jwtService *auth.JWTService,
	metrics http.Handler,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.Renderer = h.Renderer

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// HTML storefront
	e.GET("/", h.Page.Index)
	e.GET("/cart", h.Page.Cart)
	e.POST("/cart/items", h.Page.AddToCart)

	limiter := authRateLimiter(cfg.RateLimit)
	forms := e.Group("/auth")
	forms.POST("/signin", h.Auth.SignIn, limiter)
	forms.POST("/signup", h.Auth.SignUp, limiter)
	forms.POST("/signout", h.Auth.SignOut)

	api := e.Group("/api")
	api.GET("/books", h.API.ListBooks)

	// Secured routes (require a bearer access token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:     handler.BearerContextKey,
		ParseTokenFunc: handler.BearerParser(jwtService),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrUnauthorized.Error(),
				Code:  "UNAUTHORIZED",
			})
		},
	}))
	secured.GET("/me", h.API.Me)
	secured.GET("/cart", h.API.ListCart)
	secured.POST("/cart", h.API.AddToCart)
}

// authRateLimiter throttles credential guessing per client IP.
func authRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.AuthPerSecond),
		Burst:     cfg.AuthBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many attempts, try again shortly",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
