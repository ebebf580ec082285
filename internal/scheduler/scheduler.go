package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"postsweeper/internal/model"
	"postsweeper/internal/service"
)

// Schedule fires the sweep once a day at 02:00 UTC.
const Schedule = "0 2 * * *"

// ErrAlreadyRunning is returned by Start on a scheduler that was already started.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ResultHook receives the result of every sweep the scheduler triggers.
type ResultHook func(ctx context.Context, res model.SweepResult)

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithResultHook registers a callback invoked after each sweep.
func WithResultHook(h ResultHook) Option {
	return func(s *Scheduler) { s.hooks = append(s.hooks, h) }
}

// Scheduler triggers retention sweeps on the fixed daily schedule.
// Firings are not serialised: if a sweep is still running when the next one
// is due, both run.
type Scheduler struct {
	sweeper service.SweepService
	cron    *cron.Cron
	hooks   []ResultHook
	mu      sync.Mutex
	logger  *zap.Logger
	running bool
}

// New creates a scheduler that evaluates Schedule in UTC.
func New(sweeper service.SweepService, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		sweeper: sweeper,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logger:  logger.With(zap.String("component", "scheduler")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the sweep job and starts the cron loop.
// The scheduler stops on its own when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	if _, err := s.cron.AddFunc(Schedule, func() {
		s.RunNow(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		zap.String("schedule", Schedule),
		zap.String("timezone", "UTC"),
		zap.Duration("retention_window", service.RetentionWindow),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunNow performs one sweep immediately and passes the result to the hooks.
func (s *Scheduler) RunNow(ctx context.Context) model.SweepResult {
	res := s.sweeper.Run(ctx)

	if res.Success {
		s.logger.Info("sweep finished",
			zap.Int("deleted_posts", res.DeletedPosts),
			zap.Int("deleted_media_files", res.DeletedMediaFiles),
			zap.String("cleanup_time", res.CleanupTime),
		)
	} else {
		s.logger.Error("sweep failed",
			zap.String("error", res.Error),
			zap.String("cleanup_time", res.CleanupTime),
		)
	}

	for _, h := range s.hooks {
		h(ctx, res)
	}
	return res
}

// Stop stops the scheduler and waits for any running sweep to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when not started.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
