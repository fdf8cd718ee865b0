package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/user"
)

// OwnerSource resolves the user that owns a session.
type OwnerSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// MemoryRepository keeps sessions in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	owners   OwnerSource
}

// NewMemoryRepository creates an empty repository that resolves owners through owners.
func NewMemoryRepository(owners OwnerSource) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*Session),
		owners:   owners,
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := *s
	r.sessions[s.Token] = &c
	return nil
}

func (r *MemoryRepository) Lookup(ctx context.Context, token string, now time.Time) (*Record, error) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	var c Session
	if ok {
		c = *s
	}
	r.mu.RUnlock()

	if !ok || c.IsExpired(now) {
		return nil, ErrNotFound
	}

	u, err := r.owners.GetByID(ctx, c.UserID)
	if err != nil {
		// Sessions of deleted users go with them, as ON DELETE CASCADE would do.
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve session owner: %w", err)
	}

	return &Record{
		Session: c,
		Owner: Owner{
			ID:       u.ID,
			Email:    u.Email,
			Name:     u.Name,
			IsActive: u.IsActive,
		},
	}, nil
}

func (r *MemoryRepository) Touch(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return ErrNotFound
	}
	if at.After(s.LastAccessed) {
		s.LastAccessed = at
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, s := range r.sessions {
		if s.IsExpired(now) {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the stored session for token.
func (r *MemoryRepository) Get(token string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Len returns the number of stored sessions.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
