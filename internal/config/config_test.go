package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, "@every 15m", cfg.Tracking.Schedule)
	assert.Equal(t, 10*time.Minute, cfg.Tracking.RunTimeout)
	assert.Equal(t, 4, cfg.Tracking.Concurrency)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TRACKING_CONCURRENCY", "8")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FETCHER_TIKTOK_ENDPOINT", "http://views.internal/tiktok")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 8, cfg.Tracking.Concurrency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "http://views.internal/tiktok", cfg.Fetcher.TikTokEndpoint)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadEmptyRedisAddress(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"STORAGE_DRIVER":       "sqlite",
		"TRACKING_CONCURRENCY": "0",
		"TRACKING_MAX_LINKS":   "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
