package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/linkauth/pkg/auth"
	"github.com/dmitrymomot/linkauth/pkg/clientip"
	"github.com/dmitrymomot/linkauth/pkg/logger"
)

// requestLogger logs one line per request once the handler returns.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			log.Log(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.ClientIP(clientip.GetIPFromContext(r.Context())),
				logger.Duration(time.Since(start)),
			)
		})
	}
}

// requireSession verifies the bearer token and stores the identity in the
// request context.
func (h *handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		id, err := h.svc.VerifySession(r.Context(), tok)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetIdentityToContext(r.Context(), id)))
	})
}
