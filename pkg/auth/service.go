package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/jwt"
	"github.com/dmitrymomot/linkauth/pkg/logger"
	"github.com/dmitrymomot/linkauth/pkg/magiclink"
	"github.com/dmitrymomot/linkauth/pkg/ratelimit"
	"github.com/dmitrymomot/linkauth/pkg/sanitizer"
	"github.com/dmitrymomot/linkauth/pkg/session"
	"github.com/dmitrymomot/linkauth/pkg/token"
	"github.com/dmitrymomot/linkauth/pkg/user"
	"github.com/dmitrymomot/linkauth/pkg/validator"
)

// Service orchestrates magic-link sign-in and session management.
type Service struct {
	users    user.Repository
	links    *magiclink.Store
	sessions *session.Store
	limiter  *ratelimit.Limiter
	sender   LinkSender
	log      *slog.Logger

	storeTimeout time.Duration
	rateMax      int
	rateWindow   time.Duration
}

// NewService creates a Service. All dependencies are required.
func NewService(
	users user.Repository,
	links *magiclink.Store,
	sessions *session.Store,
	limiter *ratelimit.Limiter,
	sender LinkSender,
	opts ...Option,
) (*Service, error) {
	if users == nil || links == nil || sessions == nil || limiter == nil || sender == nil {
		return nil, ErrMissingDependency
	}

	s := &Service{
		users:        users,
		links:        links,
		sessions:     sessions,
		limiter:      limiter,
		sender:       sender,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		storeTimeout: DefaultStoreTimeout,
		rateMax:      DefaultRateLimitMax,
		rateWindow:   DefaultRateLimitWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s, nil
}

// RequestMagicLink issues a sign-in link for in.Email and sends it out of band.
// The user is created on first request. Delivery failures are logged and not
// reported, so the response does not reveal deliverability.
func (s *Service) RequestMagicLink(ctx context.Context, in RequestMagicLinkInput, meta ClientMeta) (*LinkRequested, error) {
	raw := strings.TrimSpace(in.Email)
	name := sanitizer.DisplayName(in.Name)
	if err := validator.Apply(
		validator.RequiredString("email", raw),
		validator.ValidEmail("email", raw),
		validator.MaxLenString("name", name, MaxNameLength),
	); err != nil {
		return nil, validationError(err)
	}
	email := sanitizer.NormalizeEmail(raw)

	if err := s.checkRateLimit(ctx, meta.IPAddress, OpRequestMagicLink); err != nil {
		return nil, err
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	if _, err := s.users.Upsert(sctx, email, name); err != nil {
		return nil, s.storeFailure(ctx, "upsert user", err)
	}

	issued, err := s.links.Issue(sctx, email)
	if err != nil {
		return nil, s.storeFailure(ctx, "issue magic link", err)
	}

	if err := s.sender.SendMagicLink(ctx, email, issued.Token, issued.ExpiresAt); err != nil {
		s.log.ErrorContext(ctx, "failed to deliver magic link",
			logger.Email(email),
			logger.ClientIP(meta.IPAddress),
			logger.Error(err),
		)
	}

	return &LinkRequested{ExpiresAt: issued.ExpiresAt}, nil
}

// VerifyMagicLink redeems tok and starts a session for its owner.
// Malformed, unknown, used and expired tokens all yield ErrInvalidOrExpiredLink.
func (s *Service) VerifyMagicLink(ctx context.Context, tok string, meta ClientMeta) (*Authenticated, error) {
	tok = strings.TrimSpace(tok)
	if !token.IsHex(tok, token.DefaultLength) {
		return nil, s.linkFailure(ctx, "malformed token", nil, meta)
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	email, err := s.links.Redeem(sctx, tok)
	if err != nil {
		if errors.Is(err, magiclink.ErrInvalidOrExpired) {
			return nil, s.linkFailure(ctx, "unknown, used or expired token", err, meta)
		}
		return nil, s.storeFailure(ctx, "redeem magic link", err)
	}

	u, err := s.users.Upsert(sctx, email, "")
	if err != nil {
		return nil, s.storeFailure(ctx, "upsert user", err)
	}
	if !u.IsActive {
		s.log.InfoContext(ctx, "magic link redeemed for inactive user", logger.UserID(u.ID))
		return nil, newError(KindInactiveUser, "user is deactivated", nil)
	}

	sess, err := s.sessions.Create(sctx, u.ID, session.Meta{
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	})
	if err != nil {
		return nil, s.storeFailure(ctx, "create session", err)
	}

	s.log.InfoContext(ctx, "user signed in",
		logger.UserID(u.ID),
		logger.SessionID(sess.ID),
		logger.ClientIP(meta.IPAddress),
	)

	return &Authenticated{
		User:         u,
		SessionToken: sess.Token,
		ExpiresAt:    sess.ExpiresAt,
	}, nil
}

// VerifySession resolves a bearer token to the signed-in user.
func (s *Service) VerifySession(ctx context.Context, bearer string) (*Identity, error) {
	if bearer == "" {
		return nil, newError(KindUnauthenticated, "missing bearer token", nil)
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	id, err := s.sessions.Verify(sctx, bearer)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, session.ErrInvalidSession):
		s.log.DebugContext(ctx, "session rejected", logger.Reason(err.Error()))
		return nil, newError(KindInvalidSession, "session rejected", err)
	case errors.Is(err, session.ErrInactiveUser):
		return nil, newError(KindInactiveUser, "user is deactivated", err)
	default:
		return nil, s.storeFailure(ctx, "verify session", err)
	}
}

// Logout revokes the session behind bearer. Unknown or already revoked
// tokens succeed.
func (s *Service) Logout(ctx context.Context, bearer string) error {
	if bearer == "" {
		return newError(KindUnauthenticated, "missing bearer token", nil)
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.sessions.Invalidate(sctx, bearer); err != nil {
		return s.storeFailure(ctx, "invalidate session", err)
	}
	return nil
}

// LogoutAll revokes every session of the user behind bearer.
func (s *Service) LogoutAll(ctx context.Context, bearer string) error {
	id, err := s.VerifySession(ctx, bearer)
	if err != nil {
		return err
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	n, err := s.sessions.InvalidateAllForUser(sctx, id.UserID)
	if err != nil {
		return s.storeFailure(ctx, "invalidate user sessions", err)
	}

	s.log.InfoContext(ctx, "all sessions revoked", logger.UserID(id.UserID), logger.Count(n))
	return nil
}

// UpdateProfile applies a partial update to the signed-in user's profile.
func (s *Service) UpdateProfile(ctx context.Context, bearer string, in ProfileInput) (*user.User, error) {
	id, err := s.VerifySession(ctx, bearer)
	if err != nil {
		return nil, err
	}

	upd := user.ProfileUpdate{Name: in.Name, Preferences: in.Preferences}
	if upd.IsEmpty() {
		return nil, newError(KindNoUpdatesProvided, "empty profile update", nil)
	}

	rules := []validator.Rule{
		validator.MaxEntries("preferences", in.Preferences, MaxPreferences),
	}
	if in.Name != nil {
		name := sanitizer.DisplayName(*in.Name)
		upd.Name = &name
		rules = append(rules, validator.MaxLenString("name", name, MaxNameLength))
	}
	for k := range in.Preferences {
		if strings.TrimSpace(k) == "" {
			rules = append(rules, validator.Rule{
				Check: func() bool { return false },
				Error: validator.ValidationError{Field: "preferences", Message: "keys must not be empty"},
			})
			break
		}
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, validationError(err)
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	u, err := s.users.UpdateProfile(sctx, id.UserID, upd)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, newError(KindInvalidSession, "session owner no longer exists", err)
		}
		return nil, s.storeFailure(ctx, "update profile", err)
	}
	return u, nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	tok, ok := jwt.BearerToken(header)
	if !ok {
		return "", newError(KindUnauthenticated, "missing or malformed authorization header", nil)
	}
	return tok, nil
}

func (s *Service) checkRateLimit(ctx context.Context, clientIP, op string) error {
	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	res, err := s.limiter.Allow(sctx, ratelimit.Key(clientIP, op), s.rateWindow, s.rateMax)
	if err != nil {
		return s.storeFailure(ctx, "rate limit", err)
	}
	if !res.Allowed {
		s.log.InfoContext(ctx, "rate limit exceeded",
			logger.Operation(op),
			logger.ClientIP(clientIP),
			logger.Count(int64(res.Count)),
		)
		return &Error{
			Kind:       KindRateLimited,
			Reason:     fmt.Sprintf("%s limit of %d per %s exceeded", op, res.Limit, s.rateWindow),
			RetryAfter: res.RetryAfter,
		}
	}
	return nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *Service) storeFailure(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "store call failed", logger.Operation(op), logger.Error(err))
	return newError(KindStoreUnavailable, op, err)
}

func (s *Service) linkFailure(ctx context.Context, reason string, err error, meta ClientMeta) error {
	s.log.InfoContext(ctx, "magic link rejected", logger.Reason(reason), logger.ClientIP(meta.IPAddress))
	return newError(KindInvalidOrExpiredLink, reason, err)
}

func validationError(err error) error {
	return &Error{
		Kind:   KindValidation,
		Reason: err.Error(),
		Fields: validator.ExtractValidationErrors(err),
		Err:    err,
	}
}
