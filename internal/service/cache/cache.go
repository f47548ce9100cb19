package cache

import (
	"context"
	"time"

	svcmetrics "AgriCast/internal/service/metrics"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Instrumented counts hits, misses and backend errors of a BytesCache.
type Instrumented struct {
	next    BytesCache
	backend string
}

func NewInstrumented(next BytesCache, backend string) *Instrumented {
	svcmetrics.Register()
	return &Instrumented{next: next, backend: backend}
}

func (c *Instrumented) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := c.next.GetBytes(ctx, key)
	switch {
	case err != nil:
		svcmetrics.CacheErrors.WithLabelValues(c.backend, "get").Inc()
	case ok:
		svcmetrics.CacheLookups.WithLabelValues(c.backend, "hit").Inc()
	default:
		svcmetrics.CacheLookups.WithLabelValues(c.backend, "miss").Inc()
	}
	return b, ok, err
}

func (c *Instrumented) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.SetBytes(ctx, key, value, ttl)
	if err != nil {
		svcmetrics.CacheErrors.WithLabelValues(c.backend, "set").Inc()
	}
	return err
}
