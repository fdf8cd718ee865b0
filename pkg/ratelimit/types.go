package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a single attempt.
type Result struct {
	// Allowed reports whether the attempt is within the limit.
	Allowed bool

	// Count is the number of attempts seen in the current window, this one included.
	Count int

	// Limit is the maximum number of attempts allowed in the window.
	Limit int

	// ResetAt is when the current window closes.
	ResetAt time.Time

	// RetryAfter is how long the caller should wait before the next attempt.
	// Zero when the attempt was allowed.
	RetryAfter time.Duration
}

// Remaining returns how many attempts are left in the current window.
func (r *Result) Remaining() int {
	if r.Count >= r.Limit {
		return 0
	}
	return r.Limit - r.Count
}

// Store keeps fixed-window counters.
type Store interface {
	// Hit records one attempt for key at now and returns the number of
	// attempts in the current window and the time that window opened.
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (count int64, windowStart time.Time, err error)

	// Reset forgets the counter for key.
	Reset(ctx context.Context, key string) error
}
