// Package app assembles the linkauth service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/linkauth/internal/httpapi"
	"github.com/dmitrymomot/linkauth/internal/migrations"
	"github.com/dmitrymomot/linkauth/pkg/auth"
	"github.com/dmitrymomot/linkauth/pkg/clientip"
	"github.com/dmitrymomot/linkauth/pkg/config"
	"github.com/dmitrymomot/linkauth/pkg/email"
	"github.com/dmitrymomot/linkauth/pkg/httpserver"
	"github.com/dmitrymomot/linkauth/pkg/jwt"
	"github.com/dmitrymomot/linkauth/pkg/logger"
	"github.com/dmitrymomot/linkauth/pkg/magiclink"
	"github.com/dmitrymomot/linkauth/pkg/mongo"
	"github.com/dmitrymomot/linkauth/pkg/pg"
	"github.com/dmitrymomot/linkauth/pkg/ratelimit"
	"github.com/dmitrymomot/linkauth/pkg/redis"
	"github.com/dmitrymomot/linkauth/pkg/secrets"
	"github.com/dmitrymomot/linkauth/pkg/session"
	"github.com/dmitrymomot/linkauth/pkg/user"
)

// App is a fully wired service.
type App struct {
	cfg     Config
	log     *slog.Logger
	service *auth.Service
	handler http.Handler
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New connects to every configured backend and wires the service.
// On error, anything already opened is closed.
func New(ctx context.Context, cfg Config, log *slog.Logger) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Discard()
	}
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	health := make(map[string]httpserver.Check)

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	a.onClose(func() error { pool.Close(); return nil })
	health["postgres"] = pg.Healthcheck(pool)

	if cfg.Postgres.MigrateOnStart {
		if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
			return nil, err
		}
	}
	db := pg.OpenDB(pool)
	a.onClose(db.Close)

	users := user.NewPostgresRepository(db)

	linkRepo, err := a.magicLinkRepository(ctx, db, health)
	if err != nil {
		return nil, err
	}
	links, err := magiclink.NewStore(linkRepo, magiclink.WithTTL(cfg.MagicLinkTTL))
	if err != nil {
		return nil, err
	}

	rlStore, err := a.rateLimitStore(ctx, health)
	if err != nil {
		return nil, err
	}
	limiter, err := ratelimit.New(rlStore)
	if err != nil {
		return nil, err
	}

	codec, err := newSessionCodec(cfg)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewStore(session.NewPostgresRepository(db), codec,
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	a.onClose(sessions.Close)

	mailer, err := newMailer(cfg.Email, log)
	if err != nil {
		return nil, err
	}

	a.service, err = auth.NewService(users, links, sessions, limiter, mailer,
		auth.WithLogger(log),
		auth.WithStoreTimeout(cfg.StoreTimeout),
		auth.WithRateLimit(cfg.RateLimitMax, cfg.RateLimitWindow),
	)
	if err != nil {
		return nil, err
	}

	a.handler = httpapi.NewRouter(httpapi.Config{
		Auth:     a.service,
		Logger:   log,
		ClientIP: clientip.New(clientip.WithTrustedHeaders(cfg.TrustProxyHeaders)),
		Health:   health,
	})
	return a, nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves HTTP and sweeps stale records until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.service.RunSweeper(ctx, a.cfg.SweepInterval)

	srv := httpserver.New(a.cfg.HTTP, a.handler, httpserver.WithLogger(a.log))
	return srv.Run(ctx)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, closerFunc(fn))
}

func (a *App) magicLinkRepository(ctx context.Context, db pg.DBTX, health map[string]httpserver.Check) (magiclink.Repository, error) {
	if a.cfg.MagicLinkBackend != BackendMongo {
		return magiclink.NewPostgresRepository(db), nil
	}

	var mcfg mongo.Config
	if err := config.Load(&mcfg); err != nil {
		return nil, err
	}
	client, err := mongo.New(ctx, mcfg)
	if err != nil {
		return nil, err
	}
	a.onClose(func() error { return client.Disconnect(context.Background()) })
	health["mongo"] = mongo.Healthcheck(client)

	repo := magiclink.NewMongoRepository(client.Database(mcfg.Database), "")
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure magic link indexes: %w", err)
	}
	return repo, nil
}

func (a *App) rateLimitStore(ctx context.Context, health map[string]httpserver.Check) (ratelimit.Store, error) {
	if a.cfg.RateLimitBackend != BackendRedis {
		store := ratelimit.NewMemoryStore()
		a.onClose(store.Close)
		return store, nil
	}

	var rcfg redis.Config
	if err := config.Load(&rcfg); err != nil {
		return nil, err
	}
	client, err := redis.Connect(ctx, rcfg)
	if err != nil {
		return nil, err
	}
	a.onClose(client.Close)
	health["redis"] = redis.Healthcheck(client)

	return ratelimit.NewRedisStore(client, ratelimit.WithKeyPrefix(rcfg.KeyPrefix+"ratelimit:")), nil
}

func newSessionCodec(cfg Config) (*jwt.Service, error) {
	master, err := secrets.ParseMasterKey(cfg.AuthSecret)
	if err != nil {
		return nil, fmt.Errorf("AUTH_SECRET: %w", err)
	}
	key, err := secrets.DeriveKey(master, secrets.PurposeSessionSigning)
	if err != nil {
		return nil, err
	}
	return jwt.New(key, cfg.TokenIssuer, cfg.TokenAudience)
}

// newMailer writes messages to disk when EMAIL_DEV_DIR is set and sends
// them through Postmark otherwise.
func newMailer(cfg email.Config, log *slog.Logger) (*email.MagicLinkMailer, error) {
	var sender email.EmailSender
	if cfg.DevDir != "" {
		log.Warn("email delivery disabled, writing messages to disk", slog.String("dir", cfg.DevDir))
		sender = email.NewDevSender(cfg.DevDir)
	} else {
		var err error
		if sender, err = email.NewPostmarkClient(cfg); err != nil {
			return nil, err
		}
	}
	return email.NewMagicLinkMailer(sender, cfg.MagicLinkBaseURL, email.WithProductName(cfg.ProductName))
}
