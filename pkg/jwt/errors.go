package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrTokenType         = errors.New("jwt: unexpected token type")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingIssuer     = errors.New("jwt: missing issuer or audience")
	ErrMissingClaims     = errors.New("jwt: missing claims")
)
