package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting outbound lookups.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// KeyedLimiter keeps one token bucket per key, stored in memory.
type KeyedLimiter struct {
	keys map[string]*rate.Limiter
	mu   sync.Mutex
	r    rate.Limit
	b    int
}

// NewKeyedLimiter creates a limiter allowing `requests` per `per` for each
// key, with the given burst size.
func NewKeyedLimiter(requests int, per time.Duration, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		keys: make(map[string]*rate.Limiter),
		r:    rate.Every(per / time.Duration(requests)),
		b:    burst,
	}
}

var _ Limiter = (*KeyedLimiter)(nil)

// Wait blocks until the key's bucket has a token or ctx is done.
func (l *KeyedLimiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	limiter, exists := l.keys[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.keys[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
