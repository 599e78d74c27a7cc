// Package cache provides the read-through memoization layer in front of
// the row store. Entries expire after a fixed TTL and are invalidated
// explicitly by key pattern after writes. The cache is an injected
// dependency, not a process-wide singleton, and takes its clock as a
// function so tests can drive expiry deterministically.
package cache

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/metrics"
)

const (
	defaultMaxEntries = 256
	defaultTTL        = 5 * time.Minute
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache memoizes table reads for a fixed TTL window.
type Cache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time
}

// EntryInfo describes one live cache entry for the status endpoint.
type EntryInfo struct {
	Key              string `json:"key"`
	AgeSeconds       int    `json:"age"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// New creates a Cache with the given capacity and TTL. Zero values fall
// back to defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	return NewWithClock(maxEntries, ttl, time.Now)
}

// NewWithClock is New with an explicit clock, for tests.
func NewWithClock(maxEntries int, ttl time.Duration, now func() time.Time) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	// Size is bounded, so the error path is unreachable.
	l, _ := lru.New[string, entry](maxEntries)
	return &Cache{lru: l, ttl: ttl, now: now}
}

// Get returns the cached value for key if present and not expired.
// Expired entries are evicted on access.
func (c *Cache) Get(key string) (any, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return e.value, true
}

// Set stores value under key with the cache's fixed TTL.
func (c *Cache) Set(key string, value any) {
	c.lru.Add(key, entry{value: value, storedAt: c.now()})
}

// Invalidate removes every entry whose key contains pattern and returns
// the number removed. An empty pattern clears the whole cache.
func (c *Cache) Invalidate(pattern string) int {
	if pattern == "" {
		n := c.lru.Len()
		c.lru.Purge()
		return n
	}
	removed := 0
	for _, key := range c.lru.Keys() {
		if strings.Contains(key, pattern) {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

// Info returns age and remaining lifetime for every live entry.
func (c *Cache) Info() []EntryInfo {
	now := c.now()
	infos := make([]EntryInfo, 0, c.lru.Len())
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		age := now.Sub(e.storedAt)
		if age > c.ttl {
			continue
		}
		infos = append(infos, EntryInfo{
			Key:              key,
			AgeSeconds:       int(age.Seconds()),
			RemainingSeconds: int((c.ttl - age).Seconds()),
		})
	}
	return infos
}
