package mongo

import "errors"

var (
	ErrConnect     = errors.New("mongo: could not connect")
	ErrUnavailable = errors.New("mongo: unavailable")
)
