// Package cache provides an in-memory LRU cache with per-entry TTLs and
// version-based invalidation. Upstream API responses, parsed profiles and
// simulation inputs all go through it with tiered lifetimes.
package cache

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SchemaVersion is the current version of cached payloads. Increment when
// the cached data structure changes to auto-invalidate old entries.
const SchemaVersion = "1.0"

// Tiered lifetimes for upstream data. Profile data moves with gear swaps,
// dynamic data (auctions, tokens) daily, static data (items, media) rarely.
const (
	TTLProfile = 3 * time.Hour
	TTLDynamic = 24 * time.Hour
	TTLStatic  = 7 * 24 * time.Hour
	TTLSimc    = time.Hour
)

type entry[V any] struct {
	version   string
	value     V
	expiresAt time.Time
}

// Cache is a size-bounded LRU with per-entry expiration. Eviction follows
// access recency; expiration is checked lazily on Get.
type Cache[V any] struct {
	lru *lru.Cache[string, *entry[V]]
	now func() time.Time
}

// New creates a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	l, err := lru.New[string, *entry[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l, now: time.Now}, nil
}

// Get retrieves a value. Returns the zero value and false when the key is
// absent, expired, or written under an older schema version; stale entries
// are removed on the way out.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	e, found := c.lru.Get(key)
	if !found {
		return zero, false
	}
	if e.version != SchemaVersion || !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the given lifetime. A non-positive ttl expires
// the entry immediately, so the next Get misses.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.lru.Add(key, &entry[V]{
		version:   SchemaVersion,
		value:     value,
		expiresAt: c.now().Add(ttl),
	})
}

// Invalidate removes a single key.
func (c *Cache[V]) Invalidate(key string) {
	c.lru.Remove(key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.lru.Purge()
}

// Len reports how many entries are held, expired ones included until the
// next Get touches them.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Key joins parts into a cache key. Parts are lowercased so region and
// realm spellings collapse onto one entry.
func Key(parts ...string) string {
	return strings.ToLower(strings.Join(parts, ":"))
}
