package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/logger"
)

// DefaultSweepInterval is used by RunSweeper when interval is not positive.
const DefaultSweepInterval = 10 * time.Minute

// SweepResult reports how many rows one sweep removed.
type SweepResult struct {
	MagicLinks int64
	Sessions   int64
}

// Sweep deletes used or expired magic links and expired sessions.
// Expiry is enforced on every read, so sweeping only reclaims space.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	links, linkErr := s.links.Sweep(sctx)
	res.MagicLinks = links

	sessions, sessErr := s.sessions.Sweep(sctx)
	res.Sessions = sessions

	return res, errors.Join(linkErr, sessErr)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			res, err := s.Sweep(ctx)
			if err != nil {
				s.log.WarnContext(ctx, "sweep failed", logger.Error(err))
			}
			s.log.DebugContext(ctx, "sweep finished",
				logger.Count(res.MagicLinks+res.Sessions),
				logger.Duration(time.Since(start)),
			)
		}
	}
}
