package judge

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum spacing between outbound calls to the judge.
// Codeforces allows at most ~5 requests/second per IP and bans violators,
// so every Client operation must pass through the same Limiter. It is an
// injectable value rather than package state so tests can use their own.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the caller may proceed, reserving its slot before
// sleeping so concurrent callers are spaced out rather than released
// together. Returns early with the context's error if it is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	if l.next.Before(now) {
		l.next = now
	}
	wait := l.next.Sub(now)
	l.next = l.next.Add(l.interval)
	l.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
