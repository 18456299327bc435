package syncer

import (
	"context"
	"errors"
	"log"
	"time"
)

// RunPeriodic runs sync passes on a fixed interval until the context is
// canceled. When runOnStart is set the first pass fires immediately. Errors
// are logged and the loop keeps going; the external service being down for
// one tick must not stop the scheduler.
func (s *Syncer) RunPeriodic(ctx context.Context, interval time.Duration, runOnStart bool) error {
	if runOnStart {
		s.runScheduled(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("sync scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

func (s *Syncer) runScheduled(ctx context.Context) {
	if _, err := s.Run(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, ErrSyncInProgress):
			log.Printf("sync: scheduled pass skipped, previous pass still running")
		default:
			log.Printf("sync: scheduled pass failed: %v", err)
		}
	}
}
