package secrets

import "errors"

var (
	ErrMasterKeyTooShort   = errors.New("master key too short: need at least 32 bytes")
	ErrMissingPurpose      = errors.New("key purpose is required")
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
