package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "STOREFRONT"

// Backend modes.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Supabase  SupabaseConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	ServerPort      string        `envconfig:"STOREFRONT_SERVER_PORT" default:"8080"`
	LogLevel        string        `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
	SwaggerHost     string        `envconfig:"STOREFRONT_SWAGGER_HOST"`
}

// BackendConfig selects which provider serves auth and data calls.
type BackendConfig struct {
	Mode        string        `envconfig:"STOREFRONT_BACKEND_MODE" default:"local"`
	HTTPTimeout time.Duration `envconfig:"STOREFRONT_BACKEND_HTTP_TIMEOUT" default:"10s"`
}

type SupabaseConfig struct {
	URL       string `envconfig:"STOREFRONT_SUPABASE_URL"`
	AnonKey   string `envconfig:"STOREFRONT_SUPABASE_ANON_KEY"`
	JWTSecret string `envconfig:"STOREFRONT_SUPABASE_JWT_SECRET"`
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"mysql"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"user:password@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local"`
}

type RedisConfig struct {
	Addr     string `envconfig:"STOREFRONT_REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB       int    `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
}

type JWTConfig struct {
	Secret     string        `envconfig:"STOREFRONT_JWT_SECRET" default:"change-me"`
	AccessTTL  time.Duration `envconfig:"STOREFRONT_JWT_ACCESS_TTL" default:"15m"`
	RefreshTTL time.Duration `envconfig:"STOREFRONT_JWT_REFRESH_TTL" default:"168h"`
}

// CookieConfig controls the cookies holding a browser's tokens.
type CookieConfig struct {
	Secure bool          `envconfig:"STOREFRONT_COOKIE_SECURE" default:"false"`
	Domain string        `envconfig:"STOREFRONT_COOKIE_DOMAIN"`
	MaxAge time.Duration `envconfig:"STOREFRONT_COOKIE_MAX_AGE" default:"168h"`
}

// RateLimitConfig throttles the sign-in and sign-up forms per client IP.
type RateLimitConfig struct {
	AuthPerSecond float64 `envconfig:"STOREFRONT_AUTH_RATE_PER_SECOND" default:"1"`
	AuthBurst     int     `envconfig:"STOREFRONT_AUTH_RATE_BURST" default:"5"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Backend.Mode = strings.ToLower(strings.TrimSpace(cfg.Backend.Mode))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendLocal:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s_DB_DSN is required in local mode", EnvPrefix)
		}
	case BackendRemote:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("%s_SUPABASE_URL and %s_SUPABASE_ANON_KEY are required in remote mode", EnvPrefix, EnvPrefix)
		}
		if c.Supabase.JWTSecret == "" {
			return fmt.Errorf("%s_SUPABASE_JWT_SECRET is required in remote mode", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown backend mode %q", c.Backend.Mode)
	}
	return nil
}

// TokenSecret returns the secret that verifies access tokens for the configured backend.
func (c *Config) TokenSecret() string {
	if c.Backend.Mode == BackendRemote {
		return c.Supabase.JWTSecret
	}
	return c.JWT.Secret
}
