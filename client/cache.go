package client

import (
	"strings"
	"sync"
	"time"
)

const (
	campaignsKey = "campaigns"

	// DefaultCacheTTL is how long a cached query stays fresh
	DefaultCacheTTL = 30 * time.Second
)

// CacheItem represents a cached item with expiration
type CacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// CacheSnapshot is a point-in-time copy of a QueryCache
type CacheSnapshot map[string]CacheItem

// QueryCache keeps API responses keyed by query. All methods are safe on a
// nil receiver, which behaves as an always-empty cache.
type QueryCache struct {
	items map[string]*CacheItem
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewQueryCache creates a cache whose entries expire after ttl
func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QueryCache{
		items: make(map[string]*CacheItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Set stores a value in cache with expiration
func (c *QueryCache) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &CacheItem{
		Value:      value,
		Expiration: c.now().Add(c.ttl),
	}
}

// Get retrieves a fresh value from cache
func (c *QueryCache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if c.now().After(item.Expiration) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur == item {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.Value, true
}

// Update replaces every entry under prefix with fn(value), keeping its expiration
func (c *QueryCache) Update(prefix string, fn func(interface{}) interface{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.items[key] = &CacheItem{Value: fn(item.Value), Expiration: item.Expiration}
		}
	}
}

// Invalidate removes every entry whose key starts with prefix
func (c *QueryCache) Invalidate(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// Snapshot copies the current entries, for restoring after a failed write
func (c *QueryCache) Snapshot() CacheSnapshot {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(CacheSnapshot, len(c.items))
	for key, item := range c.items {
		snap[key] = *item
	}
	return snap
}

// Restore replaces the cache contents with a snapshot
func (c *QueryCache) Restore(snap CacheSnapshot) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*CacheItem, len(snap))
	for key, item := range snap {
		item := item
		c.items[key] = &item
	}
}

// Size returns the number of items in cache
func (c *QueryCache) Size() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
