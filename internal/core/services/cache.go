package services

import (
	"sync"
	"time"
)

// cacheEntry is one cached payload and its creation time.
type cacheEntry[V any] struct {
	value     V
	createdAt time.Time
}

// TTLCache is a key/value store whose entries expire a fixed time after they
// were set. Expiry is checked at read time: an expired entry is evicted on
// lookup and reported as a miss. There is no capacity bound; long-running
// processes reclaim expired entries with Sweep. Safe for concurrent use.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry[V]
}

// NewTTLCache creates a cache whose entries live for ttl.
func NewTTLCache[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[V]),
	}
}

// WithClock replaces the time source. Used by tests.
func (c *TTLCache[V]) WithClock(now func() time.Time) *TTLCache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the value for key. It misses when the key was never set or the
// entry is older than the TTL.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	now := c.now()
	ttl := c.ttl
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if now.Sub(entry.createdAt) <= ttl {
		return entry.value, true
	}

	c.mu.Lock()
	// Re-check under the write lock: a concurrent Set may have refreshed it.
	if current, still := c.entries[key]; still && c.now().Sub(current.createdAt) > c.ttl {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return zero, false
}

// Set stores value under key, stamping it with the current time.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, createdAt: c.now()}
}

// SetTTL changes the TTL. Existing entries are judged against the new TTL.
func (c *TTLCache[V]) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// TTL returns the configured time to live.
func (c *TTLCache[V]) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes every entry.
func (c *TTLCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
}

// Sweep removes every expired entry and returns how many were removed.
func (c *TTLCache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
