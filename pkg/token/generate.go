package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DefaultLength is the number of random bytes used for magic-link tokens.
const DefaultLength = 32

// Generate returns byteLength random bytes encoded as lowercase hex.
// Non-positive lengths fall back to DefaultLength.
func Generate(byteLength int) string {
	return hex.EncodeToString(randomBytes(byteLength))
}

// GenerateURLSafe returns byteLength random bytes encoded as unpadded base64url.
func GenerateURLSafe(byteLength int) string {
	return base64.RawURLEncoding.EncodeToString(randomBytes(byteLength))
}

// IsHex reports whether s looks like a token produced by Generate(byteLength).
// It checks length and alphabet only and never touches storage.
func IsHex(s string, byteLength int) bool {
	if byteLength <= 0 {
		byteLength = DefaultLength
	}
	if len(s) != byteLength*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func randomBytes(n int) []byte {
	if n <= 0 {
		n = DefaultLength
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("token: entropy source failed: %w", err))
	}
	return b
}
