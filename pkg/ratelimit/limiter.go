package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter applies fixed-window limits on top of a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter backed by store.
func New(store Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records an attempt for key and reports whether it fits in
// maxAttempts per window.
func (l *Limiter) Allow(ctx context.Context, key string, window time.Duration, maxAttempts int) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}
	if maxAttempts <= 0 {
		return nil, ErrInvalidLimit
	}

	now := l.now()
	count, start, err := l.store.Hit(ctx, key, window, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	res := &Result{
		Allowed: count <= int64(maxAttempts),
		Count:   int(count),
		Limit:   maxAttempts,
		ResetAt: start.Add(window),
	}
	if !res.Allowed {
		res.RetryAfter = max(res.ResetAt.Sub(now), 0)
	}
	return res, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return l.store.Reset(ctx, key)
}
