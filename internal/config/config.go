// ABOUTME: Configuration loader for the shopfront client
// ABOUTME: Reads an optional .env file, then maps environment variables onto Config

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends understood by kvstore.Open
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	// Remote service
	APIURL      string        `env:"SHOPFRONT_API_URL" envDefault:"http://localhost:8080"`
	AuthURL     string        `env:"SHOPFRONT_AUTH_URL" envDefault:"https://reqres.in/api"`
	HTTPTimeout time.Duration `env:"SHOPFRONT_HTTP_TIMEOUT" envDefault:"30s"`
	RateLimit   float64       `env:"SHOPFRONT_RATE_LIMIT" envDefault:"0"` // requests per second, 0 = unlimited

	// Catalog
	PageCacheTTL   time.Duration `env:"SHOPFRONT_PAGE_CACHE_TTL" envDefault:"30s"`
	DedupeProducts bool          `env:"SHOPFRONT_DEDUPE_PRODUCTS" envDefault:"false"`

	// Persistent key-value store
	Store     string `env:"SHOPFRONT_STORE" envDefault:"file"`
	StorePath string `env:"SHOPFRONT_STORE_PATH"`
	RedisURL  string `env:"SHOPFRONT_REDIS_URL"`
}

// Load reads .env (if present) and the process environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	return loadFrom(env.ToMap(os.Environ()))
}

func loadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.APIURL = normalizeURL(cfg.APIURL)
	cfg.AuthURL = normalizeURL(cfg.AuthURL)
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultConfigDir()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("SHOPFRONT_API_URL must not be empty")
	}
	if c.AuthURL == "" {
		return fmt.Errorf("SHOPFRONT_AUTH_URL must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("SHOPFRONT_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("SHOPFRONT_RATE_LIMIT must not be negative, got %g", c.RateLimit)
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("SHOPFRONT_PAGE_CACHE_TTL must not be negative, got %s", c.PageCacheTTL)
	}

	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("SHOPFRONT_REDIS_URL is required when SHOPFRONT_STORE=redis")
		}
	default:
		return fmt.Errorf("SHOPFRONT_STORE must be one of file, sqlite, redis, memory; got %q", c.Store)
	}
	return nil
}

// OverrideURLs applies command-line URLs on top of the environment.
// Empty values leave the current setting alone.
func (c *Config) OverrideURLs(apiURL, authURL string) {
	if apiURL != "" {
		c.APIURL = normalizeURL(apiURL)
	}
	if authURL != "" {
		c.AuthURL = normalizeURL(authURL)
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/shopfront, falling back to ~/.config/shopfront
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shopfront")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shopfront")
}

// normalizeURL adds https:// when no scheme is given and drops trailing slashes
func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	return strings.TrimRight(url, "/")
}
