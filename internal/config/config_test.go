// ABOUTME: Tests for configuration loading
// ABOUTME: Uses explicit environment maps so tests never touch the process env

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(map[string]string{"SHOPFRONT_STORE_PATH": "/tmp/shopfront"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.AuthURL != "https://reqres.in/api" {
		t.Errorf("expected default auth URL, got %s", cfg.AuthURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.PageCacheTTL != 30*time.Second {
		t.Errorf("expected 30s page cache TTL, got %s", cfg.PageCacheTTL)
	}
	if cfg.Store != StoreFile {
		t.Errorf("expected file store, got %s", cfg.Store)
	}
	if cfg.DedupeProducts {
		t.Error("expected product de-duplication to be off by default")
	}
	if cfg.RateLimit != 0 {
		t.Errorf("expected no rate limit, got %g", cfg.RateLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := loadFrom(map[string]string{
		"SHOPFRONT_API_URL":         "shop.example.com/",
		"SHOPFRONT_AUTH_URL":        "http://auth.example.com/api/",
		"SHOPFRONT_HTTP_TIMEOUT":    "5s",
		"SHOPFRONT_RATE_LIMIT":      "2.5",
		"SHOPFRONT_STORE":           "SQLite",
		"SHOPFRONT_STORE_PATH":      "/var/lib/shopfront",
		"SHOPFRONT_DEDUPE_PRODUCTS": "true",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "https://shop.example.com" {
		t.Errorf("expected scheme added and slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.AuthURL != "http://auth.example.com/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.AuthURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.HTTPTimeout)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("expected 2.5 rps, got %g", cfg.RateLimit)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %s", cfg.Store)
	}
	if cfg.StorePath != "/var/lib/shopfront" {
		t.Errorf("expected custom store path, got %s", cfg.StorePath)
	}
	if !cfg.DedupeProducts {
		t.Error("expected de-duplication enabled")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "unknown store",
			environ: map[string]string{"SHOPFRONT_STORE": "etcd"},
			wantErr: "SHOPFRONT_STORE",
		},
		{
			name:    "redis without url",
			environ: map[string]string{"SHOPFRONT_STORE": "redis"},
			wantErr: "SHOPFRONT_REDIS_URL",
		},
		{
			name:    "zero timeout",
			environ: map[string]string{"SHOPFRONT_HTTP_TIMEOUT": "0s"},
			wantErr: "SHOPFRONT_HTTP_TIMEOUT",
		},
		{
			name:    "negative rate",
			environ: map[string]string{"SHOPFRONT_RATE_LIMIT": "-1"},
			wantErr: "SHOPFRONT_RATE_LIMIT",
		},
		{
			name:    "unparseable duration",
			environ: map[string]string{"SHOPFRONT_HTTP_TIMEOUT": "soon"},
			wantErr: "parsing environment",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.environ["SHOPFRONT_STORE_PATH"] = t.TempDir()
			_, err := loadFrom(tc.environ)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_RedisWithURL(t *testing.T) {
	cfg, err := loadFrom(map[string]string{
		"SHOPFRONT_STORE":     "redis",
		"SHOPFRONT_REDIS_URL": "redis://localhost:6379/0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("expected redis URL, got %s", cfg.RedisURL)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != "/xdg/shopfront" {
		t.Errorf("expected /xdg/shopfront, got %s", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"example.com":             "https://example.com",
		"http://example.com/":     "http://example.com",
		" https://example.com/a/ ": "https://example.com/a",
	}
	for in, want := range tests {
		if got := normalizeURL(in); got != want {
			t.Errorf("normalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOverrideURLs(t *testing.T) {
	cfg, err := loadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.OverrideURLs("shop.example.com/", "")
	if cfg.APIURL != "https://shop.example.com" {
		t.Errorf("expected normalized flag URL, got %s", cfg.APIURL)
	}
	if cfg.AuthURL != "https://reqres.in/api" {
		t.Errorf("expected auth URL untouched, got %s", cfg.AuthURL)
	}
}
