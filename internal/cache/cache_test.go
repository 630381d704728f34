package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, size int) (*Cache[string], *time.Time) {
	t.Helper()

	c, err := New[string](size)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t, 10)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("profile:us:malganis:shadowstep", "payload", TTLProfile)
	got, found := c.Get("profile:us:malganis:shadowstep")
	assert.True(t, found)
	assert.Equal(t, "payload", got)
}

func TestCache_Expiration(t *testing.T) {
	c, now := newTestCache(t, 10)

	c.Set("k", "v", time.Hour)

	*now = now.Add(59 * time.Minute)
	_, found := c.Get("k")
	assert.True(t, found)

	*now = now.Add(2 * time.Minute)
	_, found = c.Get("k")
	assert.False(t, found)

	// The expired entry was removed, not just hidden.
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLExpiresImmediately(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Set("k", "v", 0)
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestCache_VersionMismatchInvalidates(t *testing.T) {
	c, now := newTestCache(t, 10)

	c.lru.Add("k", &entry[string]{
		version:   "0.9",
		value:     "stale",
		expiresAt: now.Add(time.Hour),
	})

	_, found := c.Get("k")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2)

	c.Set("a", "1", time.Hour)
	c.Set("b", "2", time.Hour)

	// Touch "a" so "b" is the eviction candidate.
	_, found := c.Get("a")
	require.True(t, found)

	c.Set("c", "3", time.Hour)

	_, found = c.Get("b")
	assert.False(t, found)
	_, found = c.Get("a")
	assert.True(t, found)
	_, found = c.Get("c")
	assert.True(t, found)
}

func TestCache_InvalidateAndClear(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Set("a", "1", time.Hour)
	c.Set("b", "2", time.Hour)

	c.Invalidate("a")
	_, found := c.Get("a")
	assert.False(t, found)
	_, found = c.Get("b")
	assert.True(t, found)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "profile:us:malganis:shadowstep", Key("profile", "US", "MalGanis", "Shadowstep"))
	assert.Equal(t, "item:212039", Key("item", "212039"))
}
