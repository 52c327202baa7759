// internal/ratelimit/ratelimit.go
// Package ratelimit enforces a call budget over a sliding window. Stages that
// talk to hosted model APIs hold a Limiter and call Throttle before each
// request.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// cushion is added to each computed wait so a call never lands exactly on the
// window boundary.
const cushion = 100 * time.Millisecond

// Clock provides the current time for the limiter.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Limiter allows at most limit calls within a sliding window. A limit at or
// below zero disables throttling.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
	clock  Clock
}

// New returns a limiter allowing at most limit calls per window.
func New(limit int, window time.Duration) *Limiter {
	return NewWithClock(limit, window, realClock{})
}

// NewWithClock is like New but lets tests supply their own clock.
func NewWithClock(limit int, window time.Duration, clock Clock) *Limiter {
	return &Limiter{limit: limit, window: window, clock: clock}
}

// PerMinute returns a limiter allowing n calls per minute.
func PerMinute(n int) *Limiter {
	return New(n, time.Minute)
}

// Reserve registers the upcoming call and returns how long the caller must
// wait before making it. Call records older than the window are dropped first.
func (l *Limiter) Reserve() time.Duration {
	if l.limit <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)
	kept := l.calls[:0]
	for _, t := range l.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls = kept

	var wait time.Duration
	if len(l.calls) >= l.limit {
		wait = l.calls[0].Add(l.window).Sub(now) + cushion
	}
	l.calls = append(l.calls, now.Add(wait))
	return wait
}

// Throttle blocks until the next call fits the window or the context is
// canceled.
func (l *Limiter) Throttle(ctx context.Context) error {
	wait := l.Reserve()
	if wait <= 0 {
		return ctx.Err()
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
