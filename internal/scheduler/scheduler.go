// Package scheduler runs the recurring expense scan on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"budgettracker/internal/logger"
	"budgettracker/internal/services"
)

// Scanner is the part of the recurring expense service the scheduler drives.
type Scanner interface {
	RunScheduledScan(ctx context.Context, now time.Time) (*services.BatchResult, error)
}

// Scheduler triggers Scanner.RunScheduledScan on a cron spec such as
// "@every 1h" or "0 2 * * *". Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	scanner Scanner
	now     func() time.Time
	timeout time.Duration
	log     *zap.SugaredLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source passed to each scan.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithTimeout bounds a single scan. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// New parses spec and registers the scan job. The scheduler is not started.
func New(spec string, scanner Scanner, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		scanner: scanner,
		now:     time.Now,
		log:     logger.Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{s.log}
	s.cron = cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl))
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid recurring schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("recurring scheduler started", "next_run", s.NextRun())
}

// Stop halts the cron loop and waits for a running scan to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("recurring scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("recurring scheduler stop timed out with a scan in progress")
	}
}

// NextRun reports when the scan fires next. It is zero until Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce performs one scan and logs its outcome. It returns the batch result,
// or nil when the eligible set could not be loaded.
func (s *Scheduler) RunOnce(ctx context.Context) *services.BatchResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	result, err := s.scanner.RunScheduledScan(ctx, s.now())
	if err != nil {
		s.log.Errorw("scheduled recurring scan failed", "error", err)
		return nil
	}

	fields := []interface{}{
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"duration", time.Since(started),
	}
	if result.HasFailures() {
		s.log.Warnw("scheduled recurring scan finished with failures", fields...)
	} else {
		s.log.Infow("scheduled recurring scan finished", fields...)
	}
	return result
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
