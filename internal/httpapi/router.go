package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/linkauth/pkg/clientip"
	"github.com/dmitrymomot/linkauth/pkg/httpserver"
	"github.com/dmitrymomot/linkauth/pkg/logger"
	"github.com/dmitrymomot/linkauth/pkg/requestid"
)

// Config wires the router.
type Config struct {
	Auth     AuthService
	Logger   *slog.Logger
	ClientIP *clientip.Resolver

	// Health checks mounted on /healthz, keyed by dependency name.
	Health map[string]httpserver.Check
}

// NewRouter returns the API handler.
func NewRouter(cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	resolver := cfg.ClientIP
	if resolver == nil {
		resolver = clientip.New()
	}
	h := &handler{svc: cfg.Auth, log: log}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(resolver.Middleware)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.Health(log, 2*time.Second, cfg.Health))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/magic-link", h.requestMagicLink)
		r.Post("/magic-link/verify", h.verifyMagicLink)
		r.With(h.requireSession).Get("/session", h.currentSession)
		r.Post("/logout", h.logout)
		r.Post("/logout-all", h.logoutAll)
		r.Patch("/profile", h.updateProfile)
	})

	return r
}
