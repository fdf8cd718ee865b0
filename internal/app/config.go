package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/email"
	"github.com/dmitrymomot/linkauth/pkg/httpserver"
	"github.com/dmitrymomot/linkauth/pkg/pg"
)

// Backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var ErrInvalidConfig = errors.New("app: invalid configuration")

// Config is the service configuration. Redis and MongoDB settings are
// loaded separately, only when a backend needs them.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"linkauth"`
	LogLevel    string `env:"LOG_LEVEL"`

	AuthSecret    string `env:"AUTH_SECRET,required"`
	TokenIssuer   string `env:"TOKEN_ISSUER" envDefault:"linkauth"`
	TokenAudience string `env:"TOKEN_AUDIENCE" envDefault:"linkauth-api"`

	MagicLinkTTL    time.Duration `env:"MAGIC_LINK_TTL" envDefault:"15m"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"3"`

	RateLimitBackend  string `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	MagicLinkBackend  string `env:"MAGIC_LINK_BACKEND" envDefault:"postgres"`
	TrustProxyHeaders bool   `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	HTTP     httpserver.Config
	Postgres pg.Config
	Email    email.Config
}

// Validate checks values the env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	switch c.RateLimitBackend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.RateLimitBackend))
	}
	switch c.MagicLinkBackend {
	case BackendPostgres, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("MAGIC_LINK_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMongo, c.MagicLinkBackend))
	}
	if c.RateLimitMax < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be at least 1"))
	}
	for name, d := range map[string]time.Duration{
		"MAGIC_LINK_TTL":    c.MagicLinkTTL,
		"SESSION_TTL":       c.SessionTTL,
		"STORE_TIMEOUT":     c.StoreTimeout,
		"SWEEP_INTERVAL":    c.SweepInterval,
		"RATE_LIMIT_WINDOW": c.RateLimitWindow,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
