package auth

import (
	"log/slog"
	"time"
)

const (
	DefaultStoreTimeout    = 3 * time.Second
	DefaultRateLimitMax    = 3
	DefaultRateLimitWindow = 5 * time.Minute
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStoreTimeout bounds every store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithRateLimit sets how many link requests a client may make per window.
func WithRateLimit(maxAttempts int, window time.Duration) Option {
	return func(s *Service) {
		if maxAttempts > 0 {
			s.rateMax = maxAttempts
		}
		if window > 0 {
			s.rateWindow = window
		}
	}
}
