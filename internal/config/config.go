package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"campaign-earnings/internal/config/configs"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config aggregates all configuration sections for the service. Fields
// are populated from environment variables using the caarlos0/env library;
// nested structs are parsed with the given envPrefix. Use Load to construct
// a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev).
	Env string `env:"ENV" envDefault:"prod"`

	// Storage selects the repository implementation: "postgres" or
	// "memory". The memory driver keeps nothing across restarts.
	Storage string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	HTTP     configs.HTTP     `envPrefix:"HTTP_"`
	Log      configs.Logger   `envPrefix:"LOG_"`
	Psql     configs.Postgres `envPrefix:"PSQL_"`
	Redis    configs.Redis    `envPrefix:"REDIS_"`
	Tracking configs.Tracking `envPrefix:"TRACKING_"`
	Fetcher  configs.Fetcher  `envPrefix:"FETCHER_"`
	Kafka    configs.Kafka    `envPrefix:"KAFKA_"`
}

// Load reads configuration from environment variables into a Config and
// validates the values env cannot check on its own.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage)
	}
	if c.Tracking.Concurrency < 1 {
		return fmt.Errorf("config: TRACKING_CONCURRENCY must be at least 1")
	}
	if c.Tracking.MaxLinks < 1 {
		return fmt.Errorf("config: TRACKING_MAX_LINKS must be at least 1")
	}
	if c.Tracking.RatePerSecond <= 0 {
		return fmt.Errorf("config: TRACKING_RATE_PER_SECOND must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: KAFKA_BROKERS is required when KAFKA_ENABLED")
	}
	return nil
}
