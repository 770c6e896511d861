package configs

import "time"

// Tracking configures the view tracking batch and application limits.
type Tracking struct {
	// Schedule is a cron expression (seconds optional) or descriptor such
	// as "@every 15m".
	Schedule string `env:"SCHEDULE" envDefault:"@every 15m"`
	// RunTimeout bounds a single batch run.
	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"10m"`
	// Concurrency is the number of links fetched in parallel for one
	// application.
	Concurrency int `env:"CONCURRENCY" envDefault:"4"`
	// RatePerSecond and Burst throttle calls to each platform fetcher.
	RatePerSecond float64 `env:"RATE_PER_SECOND" envDefault:"5"`
	Burst         int     `env:"BURST" envDefault:"5"`
	// MaxLinks caps the content links submitted with one application.
	MaxLinks int `env:"MAX_LINKS" envDefault:"10"`
}
