package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache: an in-process L1 in front of a shared L2.
type LayeredCache struct {
	l1 BytesCache
	l2 BytesCache
}

func NewLayeredCache(l1, l2 BytesCache) *LayeredCache {
	return &LayeredCache{l1: l1, l2: l2}
}

// GetBytes tries L1, then L2, promoting L2 hits into L1.
func (c *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, err := c.l1.GetBytes(ctx, key); err == nil && ok {
		return b, true, nil
	}
	b, ok, err := c.l2.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.l1.SetBytes(ctx, key, b, 0)
	return b, true, nil
}

// SetBytes writes through: L2 first, then L1.
func (c *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l2.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.l1.SetBytes(ctx, key, value, ttl)
}
