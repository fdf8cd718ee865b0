package magiclink

import "errors"

var (
	// ErrInvalidOrExpired covers unknown, expired, already used and malformed tokens.
	ErrInvalidOrExpired = errors.New("magic link is invalid or has expired")

	// ErrNotFound is returned by repositories when no redeemable token matched.
	ErrNotFound = errors.New("magic link token not found")

	// ErrDuplicateToken is returned by repositories when the token value already exists.
	ErrDuplicateToken = errors.New("magic link token already exists")

	ErrEmptyEmail         = errors.New("magic link email is required")
	ErrRepositoryRequired = errors.New("magic link repository is required")
)
