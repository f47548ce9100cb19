package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	svcmetrics "AgriCast/internal/service/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	if _, ok, _ := c.GetBytes(ctx, "a"); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	_ = c.SetBytes(ctx, "a", []byte("1"), 0)
	_ = c.SetBytes(ctx, "b", []byte("2"), 0)
	_ = c.SetBytes(ctx, "c", []byte("3"), 0)

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok, _ := c.GetBytes(ctx, "a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if b, ok, err := c.GetBytes(ctx, "c"); !ok || err != nil || string(b) != "3" {
		t.Fatalf("get c = %q %v %v", b, ok, err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(8, 20*time.Millisecond)
	_ = c.SetBytes(ctx, "k", []byte("v"), 0)
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := c.GetBytes(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}

type failingCache struct{}

func (failingCache) GetBytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (failingCache) SetBytes(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

func TestInstrumented(t *testing.T) {
	ctx := context.Background()
	c := NewInstrumented(NewMemoryCache(4, time.Minute), "test-memory")
	hits := svcmetrics.CacheLookups.WithLabelValues("test-memory", "hit")
	misses := svcmetrics.CacheLookups.WithLabelValues("test-memory", "miss")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	_, _, _ = c.GetBytes(ctx, "x")
	_ = c.SetBytes(ctx, "x", []byte("y"), time.Minute)
	_, _, _ = c.GetBytes(ctx, "x")

	if got := testutil.ToFloat64(hits) - h0; got != 1 {
		t.Errorf("hits = %v", got)
	}
	if got := testutil.ToFloat64(misses) - m0; got != 1 {
		t.Errorf("misses = %v", got)
	}

	f := NewInstrumented(failingCache{}, "test-failing")
	_, _, _ = f.GetBytes(ctx, "x")
	_ = f.SetBytes(ctx, "x", nil, 0)
	if got := testutil.ToFloat64(svcmetrics.CacheErrors.WithLabelValues("test-failing", "get")); got != 1 {
		t.Errorf("get errors = %v", got)
	}
	if got := testutil.ToFloat64(svcmetrics.CacheErrors.WithLabelValues("test-failing", "set")); got != 1 {
		t.Errorf("set errors = %v", got)
	}
}

func TestLayeredCache(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(4, time.Minute)
	l2 := NewMemoryCache(4, time.Minute)
	c := NewLayeredCache(l1, l2)

	_ = l2.SetBytes(ctx, "k", []byte("v"), 0)
	if b, ok, err := c.GetBytes(ctx, "k"); !ok || err != nil || string(b) != "v" {
		t.Fatalf("get = %q %v %v", b, ok, err)
	}
	if _, ok, _ := l1.GetBytes(ctx, "k"); !ok {
		t.Fatal("L2 hit was not promoted to L1")
	}

	_ = c.SetBytes(ctx, "n", []byte("1"), time.Minute)
	if _, ok, _ := l2.GetBytes(ctx, "n"); !ok {
		t.Fatal("write did not reach L2")
	}

	f := NewLayeredCache(NewMemoryCache(4, time.Minute), failingCache{})
	if err := f.SetBytes(ctx, "x", []byte("y"), 0); err == nil {
		t.Fatal("expected L2 error")
	}
	if _, ok, err := f.GetBytes(ctx, "x"); ok || err == nil {
		t.Fatalf("L1 must not be filled when L2 write fails: %v %v", ok, err)
	}
}
