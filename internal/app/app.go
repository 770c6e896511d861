// Package app wires configuration, storage and adapters into the use cases
// shared by the API server and the tracking worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"campaign-earnings/internal/adapter/anomaly"
	"campaign-earnings/internal/adapter/fetcher"
	"campaign-earnings/internal/adapter/memory"
	"campaign-earnings/internal/adapter/metrics"
	"campaign-earnings/internal/adapter/postgres"
	"campaign-earnings/internal/adapter/redislock"
	"campaign-earnings/internal/adapter/usecase"
	"campaign-earnings/internal/config"
	"campaign-earnings/internal/core/port"
	"campaign-earnings/internal/db"
)

// App holds the wired use cases and the resources Close releases.
type App struct {
	Applications *usecase.ApplicationUseCase
	Earnings     *usecase.EarningsUseCase
	Tracking     *usecase.TrackingUseCase
	Locker       port.Locker
	Metrics      *prometheus.Registry

	closers []func() error
}

type repositories struct {
	tx        port.Transactor
	apps      port.ApplicationRepository
	links     port.ContentLinkRepository
	campaigns port.CampaignReader
	tracking  port.ViewTrackingRepository
}

// New builds the application from cfg. On error every resource opened so
// far is released.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{Metrics: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()
	a.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos, err := a.storage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var sink port.AnomalySink = anomaly.NewLogSink(logger)
	if cfg.Kafka.Enabled {
		pub, err := anomaly.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AnomalyTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pub.Close)
		sink = pub
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		a.Locker = redislock.New(client)
	} else {
		logger.Warn("REDIS_ADDRESS is empty, batch runs are not coordinated across replicas")
		a.Locker = redislock.Noop{}
	}

	links := usecase.NewContentLinkRegistry(repos.links)
	a.Applications = usecase.NewApplicationUseCase(repos.tx, repos.apps, links, repos.campaigns, logger, cfg.Tracking.MaxLinks)
	a.Earnings = usecase.NewEarningsUseCase(repos.apps, links, repos.campaigns)
	a.Tracking = usecase.NewTrackingUseCase(
		repos.apps,
		links,
		repos.tracking,
		fetcher.NewRegistry(cfg.Fetcher, cfg.Tracking),
		sink,
		metrics.NewTracking(a.Metrics),
		logger,
		cfg.Tracking.Concurrency,
	)
	return a, nil
}

func (a *App) storage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		for _, c := range db.DemoCampaigns() {
			store.PutCampaign(c)
		}
		logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			tx:        store,
			apps:      store.Applications(),
			links:     store.ContentLinks(),
			campaigns: store.Campaigns(),
			tracking:  store.ViewTracking(),
		}, nil
	}

	if cfg.Psql.RunMigrations {
		before, err := db.Migrate(cfg.Psql.Addr.String())
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", slog.Uint64("from_version", uint64(before)))
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	if cfg.Psql.Seed {
		if err = db.Seed(ctx, pool); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		logger.Info("demo campaigns seeded")
	}

	return &repositories{
		tx:        postgres.NewTransactor(pool),
		apps:      postgres.NewApplicationRepository(pool),
		links:     postgres.NewContentLinkRepository(pool),
		campaigns: postgres.NewCampaignRepository(pool),
		tracking:  postgres.NewViewTrackingRepository(pool),
	}, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
