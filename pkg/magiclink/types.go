package magiclink

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is a persisted magic-link record.
type Token struct {
	ID        uuid.UUID
	Email     string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Issued is what the caller learns about a new token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Repository persists tokens.
type Repository interface {
	// Insert stores a new token. It returns ErrDuplicateToken when the value is taken.
	Insert(ctx context.Context, t *Token) error

	// Consume sets used_at = now on the token when it is unused and expires
	// after now, as one atomic write. It returns ErrNotFound when nothing matched.
	Consume(ctx context.Context, token string, now time.Time) (*Token, error)

	// DeleteStale removes tokens that are used or expired at now.
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}
