package cache

import (
	"fxresolver/internal/domain"
	"sync"
)

type MemoryRateCache struct {
	entries map[domain.RatePair]domain.CacheEntry
	mu      sync.RWMutex
}

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{entries: make(map[domain.RatePair]domain.CacheEntry)}
}

func (c *MemoryRateCache) Get(pair domain.RatePair) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[pair]
	return entry, ok
}

func (c *MemoryRateCache) Set(entry domain.CacheEntry) {
	c.mu.Lock()
	c.entries[entry.Pair] = entry
	c.mu.Unlock()
}

func (c *MemoryRateCache) Entries() []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	return out
}

func (c *MemoryRateCache) Delete(pairs ...domain.RatePair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pair := range pairs {
		delete(c.entries, pair)
	}
}
