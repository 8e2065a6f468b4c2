package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port              int  `toml:"port"`
	DevRoutes         bool `toml:"dev_routes"`    // Enables POST /api/dev/seed
	CookieSecure      bool `toml:"cookie_secure"` // Set to true in production with HTTPS
	CSRF              bool `toml:"csrf"`          // CSRF checks for cookie-authenticated writes
	RateLimit         int  `toml:"rate_limit"`    // Requests per window per IP, 0 disables
	RateWindowSeconds int  `toml:"rate_window_seconds"`
}

type DatabaseConfig struct {
	Driver                 string `toml:"driver"` // "sqlite3" or "postgres"
	DSN                    string `toml:"dsn"`
	MaxOpenConns           int    `toml:"max_open_conns"`
	MaxIdleConns           int    `toml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `toml:"conn_max_lifetime_minutes"`
}

type SessionConfig struct {
	Path            string `toml:"path"` // bbolt file holding session data
	ExpirationHours int    `toml:"expiration_hours"`
}

type JWTConfig struct {
	Secret   string `toml:"secret"` // For JWT signing
	TTLHours int    `toml:"ttl_hours"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

type PaginationConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Session    SessionConfig    `toml:"session"`
	JWT        JWTConfig        `toml:"jwt"`
	Log        LogConfig        `toml:"log"`
	Pagination PaginationConfig `toml:"pagination"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var config Config

	config.Server.Port = 3000
	config.Server.CSRF = true
	config.Server.RateLimit = 100
	config.Server.RateWindowSeconds = 60

	config.Database.Driver = "sqlite3"
	config.Database.DSN = "./data/leadboard.db"
	config.Database.MaxOpenConns = 25
	config.Database.MaxIdleConns = 5
	config.Database.ConnMaxLifetimeMinutes = 5

	config.Session.Path = "./data/sessions.db"
	config.Session.ExpirationHours = 24

	config.JWT.TTLHours = 24

	config.Log.Level = "info"
	config.Log.Format = "text"

	config.Pagination.DefaultLimit = 20
	config.Pagination.MaxLimit = 100

	return &config
}

// LoadConfig reads the TOML file at filepath over the defaults, then applies
// .env and LEADBOARD_* environment overrides. A missing file is not an error.
func LoadConfig(filepath string) (*Config, error) {
	config := Default()

	if filepath != "" {
		if _, err := toml.DecodeFile(filepath, config); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", filepath, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("LEADBOARD_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEADBOARD_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("LEADBOARD_DB_DRIVER"); ok {
		c.Database.Driver = v
	}
	if v, ok := os.LookupEnv("LEADBOARD_DB_DSN"); ok {
		c.Database.DSN = v
	}
	if v, ok := os.LookupEnv("LEADBOARD_JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := os.LookupEnv("LEADBOARD_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("jwt.secret must be at least 16 bytes")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination limits are invalid: default=%d max=%d", c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	return nil
}

// SessionExpiration returns the session lifetime
func (c *Config) SessionExpiration() time.Duration {
	return time.Duration(c.Session.ExpirationHours) * time.Hour
}

// TokenTTL returns the lifetime of issued JWTs
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

// RateWindow returns the rate limiter window
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.Server.RateWindowSeconds) * time.Second
}

// ConnMaxLifetime returns the pool connection lifetime
func (c *DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// GetSecurityHeaders returns extra response headers for cookie-secured deployments
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := make(map[string]string)
	if c.Server.CookieSecure {
		headers["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}
	return headers
}
