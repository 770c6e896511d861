package configs

import "time"

// Fetcher points each platform at the upstream service that reports view
// counts. A platform without an endpoint is treated as unavailable.
type Fetcher struct {
	InstagramEndpoint string        `env:"INSTAGRAM_ENDPOINT"`
	TikTokEndpoint    string        `env:"TIKTOK_ENDPOINT"`
	Token             string        `env:"TOKEN"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"10s"`
}
