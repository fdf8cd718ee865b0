package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

// Middleware is NewMiddleware with UUID generation.
func Middleware(next http.Handler) http.Handler {
	return NewMiddleware(uuid.NewString)(next)
}

// NewMiddleware returns a middleware that generates missing or malformed
// IDs with generate.
func NewMiddleware(generate func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !isValid(id) {
				id = generate()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(SetToContext(r.Context(), id)))
		})
	}
}

// isValid accepts 1-128 characters from [A-Za-z0-9_-].
func isValid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
