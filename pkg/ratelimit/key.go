package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxKeyLength bounds storage keys; longer keys are hashed.
const maxKeyLength = 64

// Key joins the non-empty parts into a counter key, e.g.
// Key(clientIP, "request-magic-link"). Keys longer than 64 characters are
// replaced by 32 hex chars of their SHA-256.
func Key(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}

	combined := strings.Join(nonEmpty, ":")
	if len(combined) > maxKeyLength {
		hash := sha256.Sum256([]byte(combined))
		return hex.EncodeToString(hash[:16])
	}
	return combined
}
