package session

import (
	"log/slog"
	"time"
)

const (
	// DefaultTTL is the lifetime of a new session.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultTouchThreshold is the minimum age of last_accessed before a bump is queued.
	DefaultTouchThreshold = time.Minute

	defaultTouchQueueSize = 1000
	defaultTouchTimeout   = 3 * time.Second
)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for background touch failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTouchThreshold sets the minimum time between last_accessed bumps.
// Zero bumps on every Verify.
func WithTouchThreshold(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.touchThreshold = d
		}
	}
}

// WithTouchQueueSize sets the capacity of the touch queue.
func WithTouchQueueSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.touchQueueSize = n
		}
	}
}

// WithTouchTimeout bounds each background touch write.
func WithTouchTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.touchTimeout = d
		}
	}
}
