package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(capacity, refill float64) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(capacity, refill)
	l.now = clk.now
	l.sweptAt = clk.t
	return l, clk
}

func TestAllowConsumesAndRefills(t *testing.T) {
	l, clk := newTestLimiter(2, 1)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other keys have their own bucket")
	}

	clk.advance(time.Second)
	if !l.Allow("a") {
		t.Fatal("one token should have refilled")
	}
	if l.Allow("a") {
		t.Fatal("only one token refilled")
	}
}

func TestRefillCapsAtCapacity(t *testing.T) {
	l, clk := newTestLimiter(3, 10)
	l.Allow("a")
	clk.advance(time.Hour)
	passed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("a") {
			passed++
		}
	}
	if passed != 3 {
		t.Fatalf("passed = %d, want 3", passed)
	}
}

func TestIdleBucketsAreSwept(t *testing.T) {
	l, clk := newTestLimiter(5, 5)
	l.Allow("a")
	l.Allow("b")
	clk.advance(2 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Fatalf("tracked keys = %d, want 1", l.Len())
	}
}
