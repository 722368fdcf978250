package agent

import (
	"context"
	"time"
)

// DefaultSweepInterval is how often the background sweeper runs.
const DefaultSweepInterval = 10 * time.Minute

type archiveCleaner interface {
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)
}

// StartSweeper periodically removes idle sessions until ctx is done. The
// returned channel is closed when the sweeper has stopped.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		s.logger.Info("Session sweeper started", "interval", interval, "idle_ttl", s.cfg.IdleTTL)

		for {
			select {
			case <-ticker.C:
				s.sweepOnce(ctx)
			case <-ctx.Done():
				s.logger.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
	return done
}

func (s *Service) sweepOnce(ctx context.Context) {
	s.SweepIdle(ctx)

	// Archived rows whose session never made it back into memory.
	cleaner, ok := s.archive.(archiveCleaner)
	if !ok {
		return
	}
	if deleted, err := cleaner.CleanupExpiredSessions(ctx, s.cfg.IdleTTL); err != nil {
		s.logger.Error("Sweeper failed to clean up archived sessions", "error", err)
	} else if deleted > 0 {
		s.logger.Info("Sweeper cleaned up archived sessions", "count", deleted)
	}
}
