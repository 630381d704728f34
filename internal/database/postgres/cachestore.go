package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wowlab/guildsim/internal/cache"
)

// CacheStore mirrors upstream API cache entries into PostgreSQL so they
// survive restarts.
type CacheStore struct {
	db *pgxpool.Pool
}

// NewCacheStore creates a new CacheStore
func NewCacheStore(db *pgxpool.Pool) *CacheStore {
	return &CacheStore{db: db}
}

// Load fetches one entry. Returns nil when the key is absent.
func (s *CacheStore) Load(ctx context.Context, key string) (*cache.StoredEntry, error) {
	query := `
		SELECT cache_key, value, schema_version, expires_at
		FROM api_cache
		WHERE cache_key = $1
	`
	var entry cache.StoredEntry
	err := s.db.QueryRow(ctx, query, key).
		Scan(&entry.Key, &entry.Value, &entry.SchemaVersion, &entry.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entry: %w", err)
	}
	return &entry, nil
}

// Save upserts an entry keyed by cache key.
func (s *CacheStore) Save(ctx context.Context, entry cache.StoredEntry) error {
	query := `
		INSERT INTO api_cache (cache_key, value, schema_version, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE
		SET value = EXCLUDED.value,
		    schema_version = EXCLUDED.schema_version,
		    expires_at = EXCLUDED.expires_at
	`
	if _, err := s.db.Exec(ctx, query, entry.Key, entry.Value, entry.SchemaVersion, entry.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry. Missing keys are not an error.
func (s *CacheStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM api_cache WHERE cache_key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
