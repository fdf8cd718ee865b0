package user

import "errors"

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmptyEmail = errors.New("user email is required")
)
