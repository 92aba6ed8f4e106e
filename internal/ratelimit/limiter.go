// Package ratelimit implements the sliding-window limiter that guards the
// contact form. The window bookkeeping lives in a Store so the same
// Limiter can run on process memory or on a shared Redis instance.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMaxRequests = 5
	DefaultWindow      = time.Hour
)

// Clock returns the current time
type Clock func() time.Time

// Result is what a Store reports for one hit
type Result struct {
	Allowed bool
	// Count is the number of admissions inside the window after this hit
	Count int
	// Oldest is the oldest admission still inside the window
	Oldest time.Time
}

// Store keeps the admission timestamps for each key. Hit must prune entries
// older than window, and append now only when fewer than max remain, as one
// atomic step.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (Result, error)
}

// Decision is the outcome of Allow
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter admits at most MaxRequests per key within a sliding Window
type Limiter struct {
	store  Store
	clock  Clock
	max    int
	window time.Duration
}

// Option customizes a Limiter
type Option func(*Limiter)

// WithClock overrides time.Now
func WithClock(clock Clock) Option {
	return func(l *Limiter) {
		l.clock = clock
	}
}

// WithLimit sets the admission count and window
func WithLimit(max int, window time.Duration) Option {
	return func(l *Limiter) {
		if max > 0 {
			l.max = max
		}
		if window > 0 {
			l.window = window
		}
	}
}

// New creates a limiter over store
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		clock:  time.Now,
		max:    DefaultMaxRequests,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a hit for key and reports whether it is admitted
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.clock()

	res, err := l.store.Hit(ctx, key, now, l.window, l.max)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit store: %w", err)
	}

	d := Decision{
		Allowed:   res.Allowed,
		Limit:     l.max,
		Remaining: l.max - res.Count,
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}

	if !res.Oldest.IsZero() {
		d.ResetAt = res.Oldest.Add(l.window)
	} else {
		d.ResetAt = now.Add(l.window)
	}

	if !res.Allowed {
		d.RetryAfter = d.ResetAt.Sub(now)
		if d.RetryAfter < 0 {
			d.RetryAfter = 0
		}
	}

	return d, nil
}

// Window returns the configured window
func (l *Limiter) Window() time.Duration {
	return l.window
}

// withinWindow reports whether ts is still counted at now
func withinWindow(ts, now time.Time, window time.Duration) bool {
	return now.Sub(ts) < window
}
