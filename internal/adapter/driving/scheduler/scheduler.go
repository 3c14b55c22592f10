// Package scheduler triggers a job once at startup and then on a cron
// schedule in local time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. The context is canceled on shutdown.
type Job func(ctx context.Context)

// Scheduler runs a Job immediately and then on every cron trigger. A trigger
// that fires while the previous run is still in flight is skipped, and this
// applies to the startup run too.
type Scheduler struct {
	spec   string
	loc    *time.Location
	job    Job
	logger *slog.Logger
}

// New validates spec (standard 5-field cron) and returns a Scheduler. A nil
// loc means time.Local; a nil logger means slog.Default().
func New(spec string, loc *time.Location, job Job, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{spec: spec, loc: loc, job: job, logger: logger}, nil
}

// Start runs the job once right away, then on schedule, until ctx is
// canceled. It blocks and returns only after any in-flight run has finished.
func (s *Scheduler) Start(ctx context.Context) error {
	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	id, err := c.AddFunc(s.spec, func() { s.job(ctx) })
	if err != nil {
		return fmt.Errorf("add scheduled job: %w", err)
	}

	c.Start()
	entry := c.Entry(id)
	s.logger.Info("scheduler started", "schedule", s.spec, "next_run", entry.Next)

	// The startup run goes through the wrapped job so it shares the skip guard.
	var startup sync.WaitGroup
	startup.Add(1)
	go func() {
		defer startup.Done()
		entry.WrappedJob.Run()
	}()

	<-ctx.Done()
	s.logger.Info("scheduler stopping")

	// Stop waits for cron-dispatched runs only.
	<-c.Stop().Done()
	startup.Wait()

	s.logger.Info("scheduler stopped")
	return nil
}

// cronLogger bridges cron's logger onto slog. cron reports every wake-up at
// Info, so routine messages go to debug; skipped runs are surfaced.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.logger.Warn("scheduled run skipped, previous run still in progress")
		return
	}
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron "+msg, append(keysAndValues, "error", err)...)
}
