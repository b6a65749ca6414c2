// Package cache holds recently served chart snapshots so repeated reads
// for the same genre skip the database inside the freshness window.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL matches the chart refresh cadence: a snapshot older than a
// day is never worth serving.
const DefaultTTL = 24 * time.Hour

type item struct {
	value    any
	storedAt time.Time
}

// Cache is a TTL map with lazy expiry. Entries are evicted on the read
// that finds them stale, not by a background sweeper.
type Cache struct {
	mu    sync.Mutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Set stores value under key, replacing any previous entry and restarting
// its TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: value, storedAt: c.now()}
}

// Get returns the cached value if it is still inside the TTL; an entry aged
// exactly the TTL still counts as fresh. A stale entry is removed and
// reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(it.storedAt) > c.ttl {
		delete(c.items, key)
		return nil, false
	}
	return it.value, true
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len counts live entries without expiring anything.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
