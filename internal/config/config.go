// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/novelreader/meionovel"
	"github.com/briangreenhill/novelreader/store"
)

// Config holds all application configuration
type Config struct {
	API      APIConfig
	Store    StoreConfig
	Server   ServerConfig
	LogLevel string `env:"NOVEL_LOG_LEVEL" envDefault:"warn"`
}

// APIConfig holds the remote catalog API settings
type APIConfig struct {
	BaseURL     string        `env:"NOVEL_API_BASE_URL" envDefault:"https://www.sankavollerei.com/novel/meionovel"`
	CacheTTL    time.Duration `env:"NOVEL_CACHE_TTL" envDefault:"5m"`
	FailureTTL  time.Duration `env:"NOVEL_FAILURE_TTL" envDefault:"5m"`
	HTTPTimeout time.Duration `env:"NOVEL_HTTP_TIMEOUT" envDefault:"15s"`
	HTTPCache   bool          `env:"NOVEL_HTTP_CACHE" envDefault:"false"`
}

// StoreConfig holds local state settings. An empty DataDir means ~/.novelreader.
type StoreConfig struct {
	Driver  string `env:"NOVEL_STORE" envDefault:"file"`
	DataDir string `env:"NOVEL_DATA_DIR"`
}

// ServerConfig holds web reader settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	SessionLifetime time.Duration `env:"NOVEL_SESSION_LIFETIME" envDefault:"720h"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration with every default applied
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:     meionovel.DefaultBaseURL,
			CacheTTL:    5 * time.Minute,
			FailureTTL:  5 * time.Minute,
			HTTPTimeout: 15 * time.Second,
		},
		Store:    StoreConfig{Driver: store.DriverFile},
		Server:   ServerConfig{Port: "8080", SessionLifetime: 720 * time.Hour},
		LogLevel: "warn",
	}
}

// Level parses LogLevel, falling back to warn
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// Validate checks the settings Load cannot check on its own
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("NOVEL_API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.CacheTTL <= 0 {
		return fmt.Errorf("NOVEL_CACHE_TTL must be positive, got %s", c.API.CacheTTL)
	}
	if c.API.FailureTTL < 0 {
		return fmt.Errorf("NOVEL_FAILURE_TTL must not be negative, got %s", c.API.FailureTTL)
	}
	if c.API.HTTPTimeout <= 0 {
		return fmt.Errorf("NOVEL_HTTP_TIMEOUT must be positive, got %s", c.API.HTTPTimeout)
	}
	switch c.Store.Driver {
	case store.DriverFile, store.DriverSQLite:
	default:
		return fmt.Errorf("NOVEL_STORE must be %s or %s, got %q", store.DriverFile, store.DriverSQLite, c.Store.Driver)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid NOVEL_LOG_LEVEL: %v", err)
	}
	return nil
}
