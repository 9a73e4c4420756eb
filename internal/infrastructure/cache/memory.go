package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// MemoryCache is an in-process LRU alternative for deployments without
// Redis. Entries are evicted by capacity and, when a TTL is set, by age.
type MemoryCache struct {
	cache *lru.Cache
	ttl   time.Duration
	mu    sync.RWMutex
}

type memoryEntry struct {
	value     []float32
	expiresAt time.Time
}

func NewMemoryCache(maxSize int, ttl time.Duration) (*MemoryCache, error) {
	if maxSize <= 0 {
		maxSize = 4096
	}
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}

	return &MemoryCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	entry := val.(memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}

	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []float32, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.ttl
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.cache.Add(key, entry)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(key)
	return nil
}
