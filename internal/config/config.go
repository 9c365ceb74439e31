// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinSecretLength is the minimum required length for the JWT signing secret.
const MinSecretLength = 32

// ErrInvalid indicates the configuration failed validation.
var ErrInvalid = errors.New("configuration is invalid")

// Config holds all settings for the server process.
// Values are read once at startup and are read-only afterwards.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DatabaseURL is the storage DSN. A postgres:// URL selects the
	// PostgreSQL dialect; anything else is treated as a SQLite path.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"taskdeck.db"`

	// JWTSecret is the HMAC signing key for access tokens.
	JWTSecret string `env:"JWT_SECRET"`

	// SigningMethod is the JWT signing algorithm (HS256, HS384, HS512).
	SigningMethod string `env:"JWT_SIGNING_METHOD" envDefault:"HS256"`

	// AccessTokenTTL is how long issued tokens remain valid.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// ClockSkew is the leeway allowed when validating token timestamps.
	ClockSkew time.Duration `env:"CLOCK_SKEW" envDefault:"30s"`

	// RedisURL, when set, backs the auth rate limiter with Redis so
	// limits hold across replicas. Empty means in-memory limiting.
	RedisURL string `env:"REDIS_URL"`

	// AuthRateLimit is the number of login/signup attempts allowed per
	// client IP per window. Zero disables rate limiting.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"10"`

	// AuthRateWindow is the rate limit window.
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrInvalid)
	}
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("%w: JWT_SECRET must be at least %d characters", ErrInvalid, MinSecretLength)
	}
	switch c.SigningMethod {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: unsupported signing method: %s", ErrInvalid, c.SigningMethod)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required", ErrInvalid)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("%w: access token TTL must be positive", ErrInvalid)
	}
	if c.AuthRateLimit < 0 {
		return fmt.Errorf("%w: auth rate limit cannot be negative", ErrInvalid)
	}
	return nil
}
