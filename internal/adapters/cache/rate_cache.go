package cache

import (
	"fmt"
	"fxresolver/internal/domain"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRateCache keeps entries in ristretto and tracks its own key set,
// since ristretto cannot enumerate what it holds.
type RistrettoRateCache struct {
	cache *ristretto.Cache

	mu   sync.Mutex
	keys map[domain.RatePair]struct{}
}

func NewRistrettoRateCache(maxItems int64) (*RistrettoRateCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("create rate cache failed: max items must be positive, got %d", maxItems)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,

		// every entry costs 1, so MaxCost counts entries
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c, keys: make(map[domain.RatePair]struct{})}, nil
}

func (c *RistrettoRateCache) Get(pair domain.RatePair) (domain.CacheEntry, bool) {
	if v, ok := c.cache.Get(toKey(pair)); ok {
		entry, ok := v.(domain.CacheEntry)
		return entry, ok
	}
	return domain.CacheEntry{}, false
}

// Set blocks until the write is visible so a following Get observes it.
func (c *RistrettoRateCache) Set(entry domain.CacheEntry) {
	if !c.cache.Set(toKey(entry.Pair), entry, 1) {
		return // dropped by admission policy
	}
	c.cache.Wait()

	c.mu.Lock()
	c.keys[entry.Pair] = struct{}{}
	c.mu.Unlock()
}

func (c *RistrettoRateCache) Entries() []domain.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]domain.CacheEntry, 0, len(c.keys))
	for pair := range c.keys {
		entry, ok := c.Get(pair)
		if !ok {
			// evicted by ristretto behind our back
			delete(c.keys, pair)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (c *RistrettoRateCache) Delete(pairs ...domain.RatePair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pair := range pairs {
		c.cache.Del(toKey(pair))
		delete(c.keys, pair)
	}
}

func (c *RistrettoRateCache) Close() { c.cache.Close() }

func toKey(p domain.RatePair) string { return p.Base + ":" + p.Quote }
