package secrets_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linkauth/pkg/secrets"
)

func TestParseMasterKey(t *testing.T) {
	t.Parallel()

	raw := strings.Repeat("k", 40)
	hexKey := hex.EncodeToString([]byte(strings.Repeat("x", 32)))

	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr error
	}{
		{"raw string", raw, 40, nil},
		{"hex string", hexKey, 32, nil},
		{"trims whitespace", "  " + raw + "\n", 40, nil},
		{"too short", "short", 0, secrets.ErrMasterKeyTooShort},
		{"empty", "", 0, secrets.ErrMasterKeyTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, err := secrets.ParseMasterKey(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, tt.wantLen)
		})
	}
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	master := []byte(strings.Repeat("m", 32))

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		a, err := secrets.DeriveKey(master, secrets.PurposeSessionSigning)
		require.NoError(t, err)
		b, err := secrets.DeriveKey(master, secrets.PurposeSessionSigning)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, secrets.KeySize)
	})

	t.Run("purposes are separated", func(t *testing.T) {
		t.Parallel()
		a, err := secrets.DeriveKey(master, "one")
		require.NoError(t, err)
		b, err := secrets.DeriveKey(master, "two")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("derived key differs from master", func(t *testing.T) {
		t.Parallel()
		k, err := secrets.DeriveKey(master, secrets.PurposeSessionSigning)
		require.NoError(t, err)
		assert.NotEqual(t, master, k)
	})

	t.Run("short master", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DeriveKey([]byte("short"), "p")
		require.ErrorIs(t, err, secrets.ErrMasterKeyTooShort)
	})

	t.Run("missing purpose", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DeriveKey(master, "")
		require.ErrorIs(t, err, secrets.ErrMissingPurpose)
	})
}
