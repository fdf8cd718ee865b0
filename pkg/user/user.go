package user

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
)

// User is an account.
type User struct {
	ID          uuid.UUID
	Email       string
	Name        string
	IsActive    bool
	Preferences map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate carries the fields to change. Nil means "leave as is".
type ProfileUpdate struct {
	Name        *string
	Preferences map[string]any
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Preferences == nil
}

// Repository persists users.
type Repository interface {
	// Upsert returns the user with email, creating an active one when absent.
	// An existing user's name is only filled in when it was empty.
	Upsert(ctx context.Context, email, name string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// apply writes the update into u.
func (p ProfileUpdate) apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Preferences != nil {
		u.Preferences = mergePreferences(u.Preferences, p.Preferences)
	}
}

func mergePreferences(current, patch map[string]any) map[string]any {
	out := make(map[string]any, len(current)+len(patch))
	maps.Copy(out, current)
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func clonePreferences(p map[string]any) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return maps.Clone(p)
}
