package email

import "errors"

var (
	ErrInvalidConfig  = errors.New("email: invalid configuration")
	ErrInvalidMessage = errors.New("email: invalid message")
	ErrDeliveryFailed = errors.New("email: delivery failed")
)
