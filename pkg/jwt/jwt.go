package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Token type discriminants carried in the "typ" claim.
const (
	TypeMagicLink = "magic-link"
	TypeSession   = "session"
)

// Claims is the decoded payload of a token.
type Claims struct {
	ID        string
	Type      string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// TTL is only used by Encode; ExpiresAt is derived from it.
	TTL time.Duration
}

type wireClaims struct {
	Type string `json:"typ"`
	gojwt.RegisteredClaims
}

// Service encodes and decodes HS256 tokens for a single issuer and audience.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a codec. The key should be at least 32 bytes.
func New(signingKey []byte, issuer, audience string, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if issuer == "" || audience == "" {
		return nil, ErrMissingIssuer
	}

	s := &Service{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Encode signs claims. Type, Subject and TTL are required.
func (s *Service) Encode(c Claims) (string, error) {
	if c.Type == "" || c.Subject == "" || c.TTL <= 0 {
		return "", ErrMissingClaims
	}

	now := s.now().Truncate(time.Second)
	wc := wireClaims{
		Type: c.Type,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        c.ID,
			Subject:   c.Subject,
			Issuer:    s.issuer,
			Audience:  gojwt.ClaimStrings{s.audience},
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(c.TTL)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, wc).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt: failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns its claims. expectedType must match
// the "typ" claim exactly.
func (s *Service) Decode(token, expectedType string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.issuer),
		gojwt.WithAudience(s.audience),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithTimeFunc(s.now),
	)

	var wc wireClaims
	_, err := parser.ParseWithClaims(token, &wc, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// The parser options above already cover iss/aud/exp; these guard the
	// fields it cannot know about.
	if wc.Type != expectedType {
		return nil, fmt.Errorf("%w: %w: got %q", ErrInvalidToken, ErrTokenType, wc.Type)
	}
	if wc.Subject == "" || wc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingClaims)
	}

	c := &Claims{
		ID:        wc.ID,
		Type:      wc.Type,
		Subject:   wc.Subject,
		ExpiresAt: wc.ExpiresAt.Time,
	}
	if wc.IssuedAt != nil {
		c.IssuedAt = wc.IssuedAt.Time
	}
	return c, nil
}
