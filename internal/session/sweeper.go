package session

import (
	"context"
	"time"

	"inbox-triage/internal/logger"
)

const (
	DefaultIdleTTL       = 30 * 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

// Sweeper periodically drops the viewed sets of idle sessions.
type Sweeper struct {
	tracker  *Tracker
	logger   *logger.Logger
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func NewSweeper(tracker *Tracker, ttl, interval time.Duration, logger *logger.Logger) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		tracker:  tracker,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// RunOnce sweeps at now - exported for testing
func (s *Sweeper) RunOnce(now time.Time) int {
	dropped := s.tracker.Sweep(now, s.ttl)
	if dropped > 0 {
		s.logger.Info("Idle sessions forgotten:", dropped)
	}
	return dropped
}

// Start begins the periodic sweep and blocks until Stop is called
func (s *Sweeper) Start() {
	s.logger.Info("Starting session sweeper with ttl:", s.ttl.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(s.now())
		case <-s.ctx.Done():
			s.logger.Info("Session sweeper stopped")
			return
		}
	}
}

// Stop stops the periodic sweep
func (s *Sweeper) Stop() {
	s.cancel()
}
