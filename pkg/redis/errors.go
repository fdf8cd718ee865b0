package redis

import "errors"

var (
	ErrEmptyURL    = errors.New("redis: connection URL is empty")
	ErrInvalidURL  = errors.New("redis: invalid connection URL")
	ErrNotReady    = errors.New("redis: server did not answer PING in time")
	ErrUnavailable = errors.New("redis: unavailable")
)
