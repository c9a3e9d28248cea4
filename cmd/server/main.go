package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pustakbhandar/docs"
	"pustakbhandar/internal/auth"
	"pustakbhandar/internal/backend"
	"pustakbhandar/internal/backend/local"
	"pustakbhandar/internal/backend/supabase"
	"pustakbhandar/internal/cache"
	"pustakbhandar/internal/config"
	"pustakbhandar/internal/db"
	"pustakbhandar/internal/handler"
	"pustakbhandar/internal/logger"
	"pustakbhandar/internal/metrics"
	"pustakbhandar/internal/repository"
	"pustakbhandar/internal/router"
	"pustakbhandar/internal/service"
	"pustakbhandar/internal/view"
)

// @title Nepali Pustak Bhandar API
// @version 1.0
// @description Catalog and cart API for the Nepali book storefront.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "storefront"})
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	provider, cacheClient, err := buildProvider(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("mode", cfg.Backend.Mode).Msg("backend init")
	}
	defer func() {
		if err := cacheClient.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}()
	provider = backend.Instrument(provider, metrics.NewBackendMetrics(reg))

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	store := handler.NewStorefront(provider, handler.CookieOptions{
		Secure: cfg.Cookie.Secure,
		Domain: cfg.Cookie.Domain,
		MaxAge: cfg.Cookie.MaxAge,
	}, log)

	// API callers present the same access tokens the backend issues.
	jwtService := auth.NewJWTService(cfg.TokenSecret(), cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		log,
		jwtService,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		router.Handlers{
			Renderer: renderer,
			Page:     handler.NewPageHandler(store),
			Auth:     handler.NewAuthHandler(store),
			API:      handler.NewAPIHandler(store),
		},
	)

	if cfg.App.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.App.SwaggerHost
	}

	addr := ":" + cfg.App.ServerPort
	go func() {
		log.Info().Str("addr", addr).Str("mode", cfg.Backend.Mode).Msg("storefront listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("storefront stopped")
}

// buildProvider selects the backend serving auth and data calls. The
// returned cache is nil in remote mode; the caller closes it on shutdown.
func buildProvider(cfg *config.Config, log zerolog.Logger) (backend.Provider, *cache.Client, error) {
	if cfg.Backend.Mode == config.BackendRemote {
		return supabase.New(supabase.Config{
			URL:     cfg.Supabase.URL,
			AnonKey: cfg.Supabase.AnonKey,
			Timeout: cfg.Backend.HTTPTimeout,
		}, log), nil, nil
	}

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, refresh tokens will not survive and sign-out cannot revoke access tokens")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(repository.NewAccountRepository(gormDB), jwtService, auth.NewTokenStore(cacheClient))

	return local.New(
		authService,
		repository.NewBookRepository(gormDB),
		repository.NewProfileRepository(gormDB),
		repository.NewCartItemRepository(gormDB),
		log,
	), cacheClient, nil
}
