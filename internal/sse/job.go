package sse

import (
	"context"
	"time"

	"inbox-triage/internal/logger"
	"inbox-triage/internal/service"
)

const DefaultSnoozeCheckInterval = 60 * time.Second

// SnoozeWakeJob periodically drops expired snoozes and tells open views.
type SnoozeWakeJob struct {
	dashboard  service.DashboardService
	sseManager *SSEManager
	logger     *logger.Logger
	interval   time.Duration
	now        func() time.Time

	// Context for managing the job lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSnoozeWakeJob(
	dashboard service.DashboardService,
	sseManager *SSEManager,
	interval time.Duration,
	logger *logger.Logger,
) *SnoozeWakeJob {
	if interval <= 0 {
		interval = DefaultSnoozeCheckInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SnoozeWakeJob{
		dashboard:  dashboard,
		sseManager: sseManager,
		logger:     logger,
		interval:   interval,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RunOnce checks for expired snoozes at now - exported for testing
func (j *SnoozeWakeJob) RunOnce(now time.Time) bool {
	woke, err := j.dashboard.CleanupExpired(j.ctx, now)
	if err != nil {
		j.logger.Error("Failed to persist woken snoozes:", err)
	}
	if !woke {
		return false
	}

	j.sseManager.Broadcast(EventSnoozeExpired, j.dashboard.Triage())
	return true
}

// Start begins the periodic check and blocks until Stop is called
func (j *SnoozeWakeJob) Start() {
	j.logger.Info("Starting snooze wake job with interval:", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(j.now())
		case <-j.ctx.Done():
			j.logger.Info("Snooze wake job stopped")
			return
		}
	}
}

// Stop stops the periodic check
func (j *SnoozeWakeJob) Stop() {
	j.cancel()
}

// GetInterval returns the check interval
func (j *SnoozeWakeJob) GetInterval() time.Duration {
	return j.interval
}
