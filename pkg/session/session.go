package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a persisted login.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Token        string
	ExpiresAt    time.Time
	UserAgent    string
	IPAddress    string
	LastAccessed time.Time
	CreatedAt    time.Time
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}

// Meta is the client information recorded with a new session.
type Meta struct {
	UserAgent string
	IPAddress string
}

// Owner is the subset of the owning user needed to authorize a request.
type Owner struct {
	ID       uuid.UUID
	Email    string
	Name     string
	IsActive bool
}

// Record is a live session together with its owner.
type Record struct {
	Session Session
	Owner   Owner
}

// Identity is the result of a successful Verify.
type Identity struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Repository persists sessions.
type Repository interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Lookup returns the session for token with its owner, provided it
	// expires after now. It returns ErrNotFound otherwise.
	Lookup(ctx context.Context, token string, now time.Time) (*Record, error)

	// Touch sets last_accessed to at unless a later value is already stored.
	Touch(ctx context.Context, token string, at time.Time) error

	// Delete removes the session for token. Missing sessions are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes every session of a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes sessions that expire at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
