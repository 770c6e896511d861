// Package scheduler runs the view tracking batch on a cron schedule. Runs
// never overlap: within a process cron skips a tick while the previous run
// is still going, and across replicas a lease from port.Locker decides who
// runs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"campaign-earnings/internal/config/configs"
	"campaign-earnings/internal/core/port"
)

// Refresher is the part of port.TrackingUseCase the scheduler drives.
type Refresher interface {
	BatchRefresh(ctx context.Context, campaignID *uuid.UUID) (*port.BatchSummary, error)
}

type Scheduler struct {
	cron      *cron.Cron
	schedule  cron.Schedule
	refresher Refresher
	locker    port.Locker
	lockKey   string
	lockTTL   time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	// base is cancelled by Stop so a running batch returns early.
	base   context.Context
	cancel context.CancelFunc
}

func New(refresher Refresher, locker port.Locker, redis configs.Redis, tracking configs.Tracking, logger *slog.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		refresher: refresher,
		locker:    locker,
		lockKey:   redis.LockKey,
		lockTTL:   redis.LockTTL,
		timeout:   tracking.RunTimeout,
		logger:    logger,
	}
	schedule, err := parser.Parse(tracking.Schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", tracking.Schedule, err)
	}
	s.schedule = schedule
	s.cron.Schedule(schedule, cron.FuncJob(s.tick))
	s.base, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Start begins firing the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels a running batch and waits for it to
// return, or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	s.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) tick() {
	if _, _, err := s.RunOnce(s.base); err != nil {
		s.logger.Error("view refresh batch failed", slog.Any("error", err))
	}
}

// RunOnce runs one batch if the lease can be taken. ran is false when
// another holder has it.
func (s *Scheduler) RunOnce(ctx context.Context) (summary *port.BatchSummary, ran bool, err error) {
	ttl := s.lockTTL
	if ttl < s.timeout {
		ttl = s.timeout
	}
	release, ok, err := s.locker.TryLock(ctx, s.lockKey, ttl)
	if err != nil {
		return nil, false, fmt.Errorf("take batch lease: %w", err)
	}
	if !ok {
		s.logger.Info("view refresh batch skipped, lease held elsewhere", slog.String("key", s.lockKey))
		return nil, false, nil
	}
	defer func() {
		// The run context may already be done, the lease must still go.
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.logger.Warn("failed to release batch lease", slog.Any("error", rerr))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err = s.refresher.BatchRefresh(runCtx, nil)
	return summary, true, err
}

// Next reports when the schedule fires next after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
