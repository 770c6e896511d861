package configs

import "time"

// Redis configures the client used for the batch run lock. Addr has no
// default: leaving it empty disables locking, which is only safe with a
// single worker replica.
type Redis struct {
	Addr     string        `env:"ADDRESS"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	LockKey  string        `env:"LOCK_KEY" envDefault:"campaign-earnings:view-refresh"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"20m"`
}
