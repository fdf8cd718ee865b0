package auth

import (
	"context"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/session"
	"github.com/dmitrymomot/linkauth/pkg/user"
)

// OpRequestMagicLink is the rate-limit operation for link requests.
const OpRequestMagicLink = "request-magic-link"

// Profile limits.
const (
	MaxNameLength  = 100
	MaxPreferences = 64
)

// LinkSender delivers a magic link to its owner.
type LinkSender interface {
	SendMagicLink(ctx context.Context, email, token string, expiresAt time.Time) error
}

// ClientMeta is best-effort information about the caller. Both fields may be empty.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// RequestMagicLinkInput is the input of RequestMagicLink.
type RequestMagicLinkInput struct {
	Email string
	Name  string
}

// LinkRequested is the result of RequestMagicLink. The token is never part of it.
type LinkRequested struct {
	ExpiresAt time.Time
}

// Authenticated is the result of VerifyMagicLink.
type Authenticated struct {
	User         *user.User
	SessionToken string
	ExpiresAt    time.Time
}

// ProfileInput is a partial profile update. Nil fields are left unchanged;
// a nil preference value removes that key.
type ProfileInput struct {
	Name        *string
	Preferences map[string]any
}

// Identity is the signed-in user behind a session token.
type Identity = session.Identity
