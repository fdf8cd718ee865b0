package magiclink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/token"
)

const (
	// DefaultTTL is how long a link stays redeemable.
	DefaultTTL = 15 * time.Minute

	issueAttempts = 3
)

// Store implements the magic-link lifecycle on top of a Repository.
type Store struct {
	repo        Repository
	ttl         time.Duration
	tokenLength int
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides DefaultTTL.
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

// NewStore creates a store.
func NewStore(repo Repository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &Store{
		repo:        repo,
		ttl:         DefaultTTL,
		tokenLength: token.DefaultLength,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured link lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Issue creates a new token for email. Earlier tokens for the same address
// stay valid until they expire or are used.
func (s *Store) Issue(ctx context.Context, email string) (*Issued, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	now := s.now().UTC()
	var err error
	for range issueAttempts {
		t := &Token{
			ID:        uuid.New(),
			Email:     email,
			Token:     token.Generate(s.tokenLength),
			ExpiresAt: now.Add(s.ttl),
			CreatedAt: now,
		}
		if err = s.repo.Insert(ctx, t); err == nil {
			return &Issued{Token: t.Token, ExpiresAt: t.ExpiresAt}, nil
		}
		if !errors.Is(err, ErrDuplicateToken) {
			break
		}
	}
	return nil, fmt.Errorf("issue magic link: %w", err)
}

// Redeem consumes token and returns the email it was issued for.
// Malformed tokens are rejected without touching the repository.
func (s *Store) Redeem(ctx context.Context, tok string) (string, error) {
	if !token.IsHex(tok, s.tokenLength) {
		return "", ErrInvalidOrExpired
	}

	t, err := s.repo.Consume(ctx, tok, s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidOrExpired
		}
		return "", fmt.Errorf("redeem magic link: %w", err)
	}
	return t.Email, nil
}

// Sweep deletes used and expired tokens. It is advisory: correctness never
// depends on it having run.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteStale(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep magic links: %w", err)
	}
	return n, nil
}
