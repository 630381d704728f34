package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wowlab/guildsim/internal/logger"
)

// StoredEntry is the serialized form of a cache entry in durable storage.
type StoredEntry struct {
	Key           string
	Value         []byte
	SchemaVersion string
	ExpiresAt     time.Time
}

// Store is a durable mirror behind a Cache. Load returns nil when the key
// is absent.
type Store interface {
	Load(ctx context.Context, key string) (*StoredEntry, error)
	Save(ctx context.Context, entry StoredEntry) error
	Delete(ctx context.Context, key string) error
}

// Persistent is a Cache backed by a Store. Hits are served from memory;
// misses fall through to the store and re-hydrate the memory tier. A nil
// store degrades to memory-only behavior.
type Persistent[V any] struct {
	mem   *Cache[V]
	store Store
	now   func() time.Time
}

// NewPersistent creates a persistent cache holding at most size entries in
// memory. The store may be nil.
func NewPersistent[V any](size int, store Store) (*Persistent[V], error) {
	mem, err := New[V](size)
	if err != nil {
		return nil, err
	}
	return &Persistent[V]{mem: mem, store: store, now: time.Now}, nil
}

// Get serves from memory first, then lazily re-hydrates from the store.
// Store failures are logged and treated as misses; the caller falls back
// to the upstream fetch.
func (p *Persistent[V]) Get(ctx context.Context, key string) (V, bool) {
	if value, ok := p.mem.Get(key); ok {
		return value, true
	}

	var zero V
	if p.store == nil {
		return zero, false
	}

	stored, err := p.store.Load(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Warn("Cache store load failed", "key", key, "error", err)
		return zero, false
	}
	if stored == nil || stored.SchemaVersion != SchemaVersion {
		return zero, false
	}

	remaining := stored.ExpiresAt.Sub(p.now())
	if remaining <= 0 {
		// Expired on disk. Drop it so the table does not accumulate
		// dead rows between fetches.
		if err := p.store.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).Warn("Cache store delete failed", "key", key, "error", err)
		}
		return zero, false
	}

	var value V
	if err := json.Unmarshal(stored.Value, &value); err != nil {
		logger.FromContext(ctx).Warn("Cache store entry corrupt", "key", key, "error", err)
		return zero, false
	}

	p.mem.Set(key, value, remaining)
	return value, true
}

// Set writes to memory and mirrors to the store. The mirror write happens
// after the value is already serveable; a store failure is logged, not
// returned, so callers are never blocked on persistence.
func (p *Persistent[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	p.mem.Set(key, value, ttl)

	if p.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.FromContext(ctx).Warn("Cache store marshal failed", "key", key, "error", err)
		return
	}
	err = p.store.Save(ctx, StoredEntry{
		Key:           key,
		Value:         raw,
		SchemaVersion: SchemaVersion,
		ExpiresAt:     p.now().Add(ttl),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Cache store save failed", "key", key, "error", err)
	}
}

// Invalidate removes the key from both tiers.
func (p *Persistent[V]) Invalidate(ctx context.Context, key string) {
	p.mem.Invalidate(key)
	if p.store == nil {
		return
	}
	if err := p.store.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("Cache store delete failed", "key", key, "error", err)
	}
}
