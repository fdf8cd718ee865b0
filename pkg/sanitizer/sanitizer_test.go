package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/linkauth/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com\n", "bob@example.com"},
		{"user.name+tag@domain.co.uk", "user.name+tag@domain.co.uk"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.in))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		once := sanitizer.NormalizeEmail(" Mixed.Case@Example.Org ")
		assert.Equal(t, once, sanitizer.NormalizeEmail(once))
	})
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Alice", "Alice"},
		{"trims and collapses", "  Alice \t  Smith \n", "Alice Smith"},
		{"drops control chars", "Al\x00ice\x07", "Alice"},
		{"composes NFC", "Jose\u0301", "Jos\u00e9"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.DisplayName(tt.in))
		})
	}
}
