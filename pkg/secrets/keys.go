package secrets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the length of every derived key.
	KeySize = 32

	// PurposeSessionSigning names the key that signs session tokens.
	PurposeSessionSigning = "session-signing"

	// saltInfo provides domain separation for this module's derivations
	saltInfo = "linkauth-keys-v1"
)

// ParseMasterKey accepts either a hex-encoded key or a raw string and
// returns its bytes. The result must be at least KeySize bytes long.
func ParseMasterKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := hex.DecodeString(s); err == nil && len(b) >= KeySize {
		return b, nil
	}
	if len(s) < KeySize {
		return nil, ErrMasterKeyTooShort
	}
	return []byte(s), nil
}

// DeriveKey returns a KeySize key bound to purpose.
func DeriveKey(master []byte, purpose string) ([]byte, error) {
	if len(master) < KeySize {
		return nil, ErrMasterKeyTooShort
	}
	if purpose == "" {
		return nil, ErrMissingPurpose
	}

	r := hkdf.New(sha256.New, master, []byte(saltInfo), []byte(purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}
