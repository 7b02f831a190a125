package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers scan runs on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *Runner
	Ctx    context.Context

	// job is shared by cron ticks and manual triggers, so its SkipIfStillRunning
	// guard sees every run.
	job    cron.Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewScheduler creates a Scheduler using six-field cron specs (with seconds).
// A scan requested while another is still going is skipped.
func NewScheduler(ctx context.Context, runner *Runner, logger *zap.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	s := &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Ctx:    ctx,
		logger: logger,
	}
	s.job = cron.NewChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)).Then(cron.FuncJob(s.scanTask))
	return s
}

// Register adds the scan task.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddJob(scanCron, s.job); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	s.logger.Info("scan task registered", zap.String("cron", scanCron))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for running scans, including ones started by StartNow.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the scan task immediately and blocks until it returns.
// It is skipped if a scan is already running.
func (s *Scheduler) RunNow() {
	s.job.Run()
}

// StartNow runs the scan task in the background (for RUN_ON_START). Stop waits for it.
func (s *Scheduler) StartNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunNow()
	}()
}

func (s *Scheduler) scanTask() {
	if err := s.Runner.RunOnce(s.Ctx); err != nil {
		s.logger.Error("scheduled scan failed", zap.Error(err))
	}
}
