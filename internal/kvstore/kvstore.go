// ABOUTME: Durable string-keyed storage for session and preference data
// ABOUTME: Backends: JSON file, SQLite, Redis and in-memory, selected by config

package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/markalston/shopfront/internal/config"
)

// Well-known keys
const (
	KeyUserToken = "userToken"
	KeyUserID    = "userId"
	KeyTheme     = "theme"
)

// Store is a persistent key-value store. Get reports ok=false for absent keys;
// an error always means the backend itself failed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected by cfg.Store
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile:
		return NewFileStore(cfg.StorePath), nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, filepath.Join(cfg.StorePath, "shopfront.db"))
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
