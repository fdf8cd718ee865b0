package session

import "errors"

var (
	// ErrInvalidSession covers malformed, revoked, unknown and expired tokens.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrInactiveUser means the token is valid but its owner is deactivated.
	ErrInactiveUser = errors.New("session.inactive_user")

	// ErrNotFound is returned by repositories when no live session matched.
	ErrNotFound = errors.New("session.not_found")

	ErrNoRepository = errors.New("session.no_repository")
	ErrNoCodec      = errors.New("session.no_codec")
)
