package limiter

import (
	"context"
	"time"
)

// Limiter spaces consecutive fetches at least interval apart.
// A nil *Limiter never waits. Limiter is not safe for concurrent use.
type Limiter struct {
	interval time.Duration
	last     time.Time
	clock    Clock
}

// New returns a Limiter, or nil when interval is not positive.
// A nil clock falls back to SystemClock.
func New(interval time.Duration, clock Clock) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = SystemClock{}
	}

	return &Limiter{
		interval: interval,
		clock:    clock,
	}
}

// Wait blocks until the next fetch is allowed or ctx is done.
// The first call never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	now := l.clock.Now()
	if l.last.IsZero() {
		l.last = now

		return nil
	}

	next := l.last.Add(l.interval)
	if !now.Before(next) {
		l.last = now

		return nil
	}

	l.last = next

	return l.clock.Sleep(ctx, next.Sub(now))
}
