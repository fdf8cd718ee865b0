package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Returned values are copies.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Upsert(_ context.Context, email, name string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byEmail[email]; ok {
		u := r.byID[id]
		if u.Name == "" && name != "" {
			u.Name = name
		}
		return copyUser(u), nil
	}

	now := r.now().UTC()
	u := &User{
		ID:          uuid.New(),
		Email:       email,
		Name:        name,
		IsActive:    true,
		Preferences: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return copyUser(u), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(r.byID[id]), nil
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	upd.apply(u)
	u.UpdatedAt = r.now().UTC()
	return copyUser(u), nil
}

func (r *MemoryRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = r.now().UTC()
	return nil
}

func copyUser(u *User) *User {
	c := *u
	c.Preferences = clonePreferences(u.Preferences)
	return &c
}
