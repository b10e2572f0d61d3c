package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is a unit of periodic work. It receives a context bounded by the
// scheduler timeout.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on cron expressions. Overlapping runs of the same
// task are skipped.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler constructs a scheduler whose tasks get at most timeout per run.
func NewScheduler(timeout time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a task under the given cron schedule ("@every 1h", "0 2 * * *").
func (s *Scheduler) Register(name, schedule string, task Task) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		if err := task(ctx); err != nil {
			s.logger.Warn("scheduled task failed", zap.String("task", name), zap.Duration("took", time.Since(start)), zap.Error(err))
			return
		}
		s.logger.Info("scheduled task finished", zap.String("task", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("register task %s: %w", name, err)
	}
	s.logger.Info("scheduled task registered", zap.String("task", name), zap.String("schedule", schedule))
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running tasks to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Entries reports how many tasks are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
