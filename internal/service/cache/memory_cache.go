package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a size-bounded in-process cache. Entries expire after the
// TTL given at construction; the per-call ttl of SetBytes is ignored.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *MemoryCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := c.lru.Get(key)
	return b, ok, nil
}

func (c *MemoryCache) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.lru.Add(key, value)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
