package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a per-key token bucket. Every key shares the same capacity and
// refill rate.
type Limiter struct {
	mu       sync.Mutex
	m        map[string]*bucket
	capacity float64
	refill   float64 // tokens per second
	idle     time.Duration
	sweptAt  time.Time
	now      func() time.Time
}

// New creates a Limiter. Buckets untouched for longer than it takes to refill
// completely are dropped during periodic sweeps.
func New(capacity, refillPerSec float64) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	idle := time.Minute
	if refillPerSec > 0 {
		if full := time.Duration(capacity / refillPerSec * float64(time.Second)); full > idle {
			idle = full
		}
	}
	return &Limiter{
		m:        make(map[string]*bucket),
		capacity: capacity,
		refill:   refillPerSec,
		idle:     idle,
		now:      time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.sweptAt) < l.idle {
		return
	}
	for k, b := range l.m {
		if now.Sub(b.last) > l.idle {
			delete(l.m, k)
		}
	}
	l.sweptAt = now
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
