// Package scheduler keeps the router rule snapshot fresh. It runs a
// cron-driven background loop that reloads the snapshot from storage so
// routing decisions pick up rule changes without restarting.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher is anything that can reload itself from storage.
// *router.SnapshotStore satisfies this.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler refreshes the rule snapshot on a cron schedule.
type Scheduler struct {
	mu sync.Mutex

	snapshot Refresher
	logger   *slog.Logger

	parser         cron.Parser
	cronExpr       string
	schedule       cron.Schedule
	refreshOnStart bool

	// Running state
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DefaultCronExpr refreshes the snapshot every five minutes.
const DefaultCronExpr = "*/5 * * * *"

// NewScheduler creates a scheduler for the given snapshot.
func NewScheduler(snapshot Refresher) *Scheduler {
	return &Scheduler{
		snapshot:       snapshot,
		logger:         slog.Default(),
		parser:         cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		cronExpr:       DefaultCronExpr,
		refreshOnStart: true,
	}
}

// WithLogger sets a custom logger.
func (s *Scheduler) WithLogger(logger *slog.Logger) *Scheduler {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithCron sets the refresh cron expression. Invalid expressions are
// rejected at Start.
func (s *Scheduler) WithCron(expr string) *Scheduler {
	if expr != "" {
		s.cronExpr = expr
	}
	return s
}

// WithRefreshOnStart controls whether Start runs an immediate refresh
// before the first scheduled one. Defaults to true.
func (s *Scheduler) WithRefreshOnStart(enabled bool) *Scheduler {
	s.refreshOnStart = enabled
	return s
}

// Start parses the schedule, runs an initial refresh, and begins the
// background refresh loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return fmt.Errorf("scheduler already started")
	}

	schedule, err := s.parser.Parse(s.cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cronExpr, err)
	}
	s.schedule = schedule

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.refreshLoop()

	s.logger.Info("snapshot scheduler started", slog.String("cron", s.cronExpr))
	return nil
}

// Stop stops the refresh loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.ctx = nil
	s.cancel = nil
	s.mu.Unlock()

	s.logger.Info("snapshot scheduler stopped")
}

// RefreshNow reloads the snapshot immediately, outside the schedule.
func (s *Scheduler) RefreshNow(ctx context.Context) error {
	return s.snapshot.Refresh(ctx)
}

// NextRun returns the next scheduled refresh time.
func (s *Scheduler) NextRun() (time.Time, error) {
	s.mu.Lock()
	schedule := s.schedule
	expr := s.cronExpr
	s.mu.Unlock()

	if schedule == nil {
		parsed, err := s.parser.Parse(expr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
		}
		schedule = parsed
	}
	return schedule.Next(time.Now()), nil
}

// ValidateCron validates a cron expression without applying it.
func (s *Scheduler) ValidateCron(expr string) error {
	_, err := s.parser.Parse(expr)
	return err
}

// refreshLoop refreshes immediately, then sleeps until each scheduled
// run.
func (s *Scheduler) refreshLoop() {
	defer s.wg.Done()

	if s.refreshOnStart {
		s.refresh(s.ctx)
	}

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.refresh(s.ctx)
		}
	}
}

// refresh reloads the snapshot and logs the outcome. A failed refresh
// leaves the previous snapshot serving.
func (s *Scheduler) refresh(ctx context.Context) {
	start := time.Now()
	if err := s.snapshot.Refresh(ctx); err != nil {
		s.logger.Error("snapshot refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Debug("snapshot refreshed", slog.Duration("duration", time.Since(start)))
}
