package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linkauth/pkg/jwt"
	"github.com/dmitrymomot/linkauth/pkg/logger"
)

// Store creates, verifies and revokes sessions.
type Store struct {
	repo  Repository
	codec *jwt.Service
	log   *slog.Logger
	now   func() time.Time

	ttl            time.Duration
	touchThreshold time.Duration
	touchQueueSize int
	touchTimeout   time.Duration

	touches   chan touch
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type touch struct {
	token string
	at    time.Time
}

// NewStore creates a Store and starts its touch worker. Call Close to stop it.
func NewStore(repo Repository, codec *jwt.Service, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrNoRepository
	}
	if codec == nil {
		return nil, ErrNoCodec
	}

	s := &Store{
		repo:           repo,
		codec:          codec,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		ttl:            DefaultTTL,
		touchThreshold: DefaultTouchThreshold,
		touchQueueSize: defaultTouchQueueSize,
		touchTimeout:   defaultTouchTimeout,
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("session"))
	s.touches = make(chan touch, s.touchQueueSize)

	s.wg.Add(1)
	go s.touchWorker()

	return s, nil
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session for userID.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, meta Meta) (*Session, error) {
	// The codec signs whole seconds; keep the stored expiry in step with exp.
	now := s.now().UTC().Truncate(time.Second)
	id := uuid.New()

	token, err := s.codec.Encode(jwt.Claims{
		ID:      id.String(),
		Type:    jwt.TypeSession,
		Subject: userID.String(),
		TTL:     s.ttl,
	})
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	sess := &Session{
		ID:           id,
		UserID:       userID,
		Token:        token,
		ExpiresAt:    now.Add(s.ttl),
		UserAgent:    meta.UserAgent,
		IPAddress:    meta.IPAddress,
		LastAccessed: now,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Verify resolves token to the identity of its owner.
// Errors other than ErrInvalidSession and ErrInactiveUser come from the repository.
func (s *Store) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.codec.Decode(token, jwt.TypeSession)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	now := s.now().UTC()
	rec, err := s.repo.Lookup(ctx, token, now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if rec.Session.UserID.String() != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidSession)
	}
	if !rec.Owner.IsActive {
		return nil, ErrInactiveUser
	}

	if now.Sub(rec.Session.LastAccessed) >= s.touchThreshold {
		s.queueTouch(token, now)
	}

	return &Identity{
		SessionID: rec.Session.ID,
		UserID:    rec.Owner.ID,
		Email:     rec.Owner.Email,
		Name:      rec.Owner.Name,
		ExpiresAt: rec.Session.ExpiresAt,
	}, nil
}

// Invalidate deletes the session for token. Unknown tokens are not an error.
func (s *Store) Invalidate(ctx context.Context, token string) error {
	if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// InvalidateAllForUser deletes every session of userID.
func (s *Store) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return n, nil
}

// Sweep deletes expired sessions.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return n, nil
}

// Close stops the touch worker after it has written the queued bumps.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

func (s *Store) queueTouch(token string, at time.Time) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.touches <- touch{token: token, at: at}:
	default:
		// Queue full, drop the bump.
	}
}

func (s *Store) touchWorker() {
	defer s.wg.Done()
	for {
		select {
		case t := <-s.touches:
			s.applyTouch(t)
		case <-s.done:
			for {
				select {
				case t := <-s.touches:
					s.applyTouch(t)
				default:
					return
				}
			}
		}
	}
}

func (s *Store) applyTouch(t touch) {
	ctx, cancel := context.WithTimeout(context.Background(), s.touchTimeout)
	defer cancel()

	if err := s.repo.Touch(ctx, t.token, t.at); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.WarnContext(ctx, "failed to update session activity", logger.Error(err))
	}
}
