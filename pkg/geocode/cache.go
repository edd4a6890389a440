package geocode

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

// cacheKey returns SHA-256 hex of the normalized location for cache lookup.
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

type cacheEntry struct {
	result   Result
	cachedAt time.Time
}

// cache keeps geocode results, matches and non-matches alike, for ttl.
// Expired entries are dropped on lookup and swept on every put.
type cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *cache) get(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.cachedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	r := e.result
	return &r, true
}

func (c *cache) put(key string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{result: *r, cachedAt: now}
}
