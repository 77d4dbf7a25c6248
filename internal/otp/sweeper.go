package otp

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically drops expired records from a Sweepable store
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(store Sweepable, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, logger: logger, now: time.Now}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	n, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		s.logger.Warn("otp sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Debug("otp sweep", zap.Int("removed", n))
	}
}
