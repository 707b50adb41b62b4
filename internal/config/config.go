// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"3000"`

	// Backend origin the gateway proxies and mediates calls to
	APIURL string `env:"API_URL" envDefault:"http://localhost:8000"`

	// Path prefix forwarded verbatim to the backend
	ProxyPrefix string `env:"PROXY_PREFIX" envDefault:"/cv"`

	// Compiled SPA bundle served for everything else
	StaticDir string `env:"STATIC_DIR" envDefault:"./dist"`

	// Session store (Redis). Empty falls back to the in-memory store,
	// which is only suitable for a single-node dev setup.
	RedisURL   string        `env:"REDIS_URL" envDefault:""`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Auth gate
	LoginPath  string `env:"LOGIN_PATH" envDefault:"/admin/login"`
	AuthJWTKey string `env:"AUTH_JWT_SECRET" envDefault:""`
	// Legacy mode: substitute the placeholder identity for unparseable
	// tokens instead of forcing re-login.
	AuthLegacyPlaceholder bool `env:"AUTH_LEGACY_PLACEHOLDER" envDefault:"false"`

	// Backend call behavior
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`

	// Upload workflow
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"52428800"`
	ResultRetention time.Duration `env:"RESULT_RETENTION" envDefault:"60s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins. "*" permits any origin,
	// matching the behavior of the servers this gateway replaces.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// An optional .env file is loaded first; its absence is not an error.
// Returns an error if a variable fails to parse.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
