package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-earnings/internal/adapter/redislock"
	"campaign-earnings/internal/config"
	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
	"campaign-earnings/internal/db"
)

func TestNewWithMemoryStorage(t *testing.T) {
	cfg := config.Config{Storage: config.StorageMemory}
	cfg.Tracking.Concurrency = 2
	cfg.Tracking.RatePerSecond = 10
	cfg.Tracking.Burst = 1
	cfg.Kafka.AnomalyTopic = "view-anomalies"

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, redislock.Noop{}, a.Locker)

	creator := domain.Actor{UserID: uuid.New(), Role: domain.RoleInfluencer}
	view, err := a.Applications.Create(context.Background(), creator, port.CreateApplicationReq{
		CampaignID: db.DemoCPMCampaign,
		Message:    "hello",
		Links:      []port.LinkInput{{Platform: "tiktok", URL: "https://www.tiktok.com/@me/video/1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, view.Application.Status)

	mfs, err := a.Metrics.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestLoadedConfigWithoutRedisUsesNoopLocker(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, redislock.Noop{}, a.Locker)
	release, ok, err := a.Locker.TryLock(context.Background(), cfg.Redis.LockKey, cfg.Redis.LockTTL)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, release(context.Background()))
}
