// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache with a background sweeper, used for product pages

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache is safe for concurrent use. A zero or negative TTL disables it.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	store map[K]entry[V]
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		store: make(map[K]entry[V]),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	if ttl > 0 {
		go c.startCleanup(sweepInterval(ttl))
	}
	return c
}

// Enabled reports whether entries are retained at all
func (c *Cache[K, V]) Enabled() bool {
	return c.ttl > 0
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		c.Clear(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	c.store[key] = entry[V]{data: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	slog.Debug("Cache set", "key", key, "ttl", c.ttl)
}

func (c *Cache[K, V]) Clear(key K) {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
}

// Purge drops every entry
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	c.store = make(map[K]entry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the background sweeper
func (c *Cache[K, V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, e := range c.store {
				if now.After(e.expiresAt) {
					delete(c.store, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}
