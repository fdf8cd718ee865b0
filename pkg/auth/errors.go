package auth

import (
	"errors"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/validator"
)

// Kind classifies an authentication failure.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindRateLimited
	KindInvalidOrExpiredLink
	KindUnauthenticated
	KindInvalidSession
	KindInactiveUser
	KindNoUpdatesProvided
	KindStoreUnavailable
)

var kindNames = map[Kind]string{
	KindValidation:           "validation_error",
	KindRateLimited:          "rate_limited",
	KindInvalidOrExpiredLink: "invalid_or_expired_link",
	KindUnauthenticated:      "unauthenticated",
	KindInvalidSession:       "invalid_session",
	KindInactiveUser:         "inactive_user",
	KindNoUpdatesProvided:    "no_updates_provided",
	KindStoreUnavailable:     "store_unavailable",
}

var kindMessages = map[Kind]string{
	KindValidation:           "invalid request",
	KindRateLimited:          "too many attempts, please try again later",
	KindInvalidOrExpiredLink: "magic link is invalid or has expired",
	KindUnauthenticated:      "authentication required",
	KindInvalidSession:       "session is invalid or has expired",
	KindInactiveUser:         "account is inactive",
	KindNoUpdatesProvided:    "no updates provided",
	KindStoreUnavailable:     "service temporarily unavailable",
}

// String returns the machine-readable code of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is the error type returned by Service.
type Error struct {
	Kind Kind

	// Reason is the internal cause, for logs only.
	Reason string

	// RetryAfter is set for KindRateLimited.
	RetryAfter time.Duration

	// Fields lists per-field problems for KindValidation.
	Fields validator.ValidationErrors

	Err error
}

// Error returns the client-safe message for the kind.
func (e *Error) Error() string {
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	return "authentication failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrTooManyAttempts      = &Error{Kind: KindRateLimited}
	ErrInvalidOrExpiredLink = &Error{Kind: KindInvalidOrExpiredLink}
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
	ErrInvalidSession       = &Error{Kind: KindInvalidSession}
	ErrInactiveUser         = &Error{Kind: KindInactiveUser}
	ErrNoUpdatesProvided    = &Error{Kind: KindNoUpdatesProvided}
	ErrStoreUnavailable     = &Error{Kind: KindStoreUnavailable}
)

// Construction errors.
var (
	ErrMissingDependency = errors.New("auth: missing dependency")
)

// KindOf returns the kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}
