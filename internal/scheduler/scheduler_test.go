package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-earnings/internal/adapter/redislock"
	"campaign-earnings/internal/config/configs"
	"campaign-earnings/internal/core/port"
)

type fakeRefresher struct {
	calls    atomic.Int32
	summary  *port.BatchSummary
	err      error
	deadline bool
}

func (f *fakeRefresher) BatchRefresh(ctx context.Context, _ *uuid.UUID) (*port.BatchSummary, error) {
	f.calls.Add(1)
	_, f.deadline = ctx.Deadline()
	return f.summary, f.err
}

func newScheduler(t *testing.T, r Refresher) (*Scheduler, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s, err := New(r, redislock.New(client),
		configs.Redis{LockKey: "view-refresh", LockTTL: time.Minute},
		configs.Tracking{Schedule: "@every 15m", RunTimeout: time.Minute},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return s, srv
}

func TestRunOnceRunsBatchUnderLease(t *testing.T) {
	r := &fakeRefresher{summary: &port.BatchSummary{Applications: 2, Updated: 1}}
	s, srv := newScheduler(t, r)

	summary, ran, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, summary.Applications)
	assert.True(t, r.deadline, "batch runs with the configured timeout")
	assert.False(t, srv.Exists("view-refresh"), "lease is released afterwards")
}

func TestRunOnceSkipsWhenLeaseHeld(t *testing.T) {
	r := &fakeRefresher{summary: &port.BatchSummary{}}
	s, srv := newScheduler(t, r)
	require.NoError(t, srv.Set("view-refresh", "other-replica"))

	summary, ran, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Nil(t, summary)
	assert.Zero(t, r.calls.Load())
}

func TestRunOnceReleasesLeaseOnFailure(t *testing.T) {
	boom := errors.New("store down")
	r := &fakeRefresher{summary: &port.BatchSummary{Applications: 1, Failed: 1}, err: boom}
	s, srv := newScheduler(t, r)

	_, ran, err := s.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, ran)
	assert.False(t, srv.Exists("view-refresh"))
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(&fakeRefresher{}, redislock.Noop{}, configs.Redis{},
		configs.Tracking{Schedule: "every now and then"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestNextAcceptsSecondsAndDescriptors(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	cases := map[string]time.Duration{
		"@every 15m":   15 * time.Minute,
		"30 0 * * * *": 30 * time.Second,
		"0 * * * *":    time.Hour,
	}
	for schedule, after := range cases {
		t.Run(schedule, func(t *testing.T) {
			s, err := New(&fakeRefresher{}, redislock.Noop{}, configs.Redis{},
				configs.Tracking{Schedule: schedule, RunTimeout: time.Minute},
				slog.New(slog.NewTextHandler(io.Discard, nil)))
			require.NoError(t, err)
			assert.Equal(t, base.Add(after), s.Next(base))
		})
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newScheduler(t, &fakeRefresher{})
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
