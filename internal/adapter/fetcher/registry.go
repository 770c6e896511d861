// Package fetcher provides the per-platform view count fetchers consumed by
// the view tracking orchestrator.
package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"

	"campaign-earnings/internal/config/configs"
	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// Registry maps platforms to fetchers.
type Registry map[domain.Platform]port.ViewFetcher

// For implements port.FetcherRegistry.
func (r Registry) For(platform domain.Platform) (port.ViewFetcher, bool) {
	f, ok := r[platform]
	return f, ok
}

// NewRegistry builds a throttled fetcher for every supported platform. A
// platform without a configured endpoint gets an Unavailable fetcher, so
// its links are skipped rather than failing the batch.
func NewRegistry(cfg configs.Fetcher, tracking configs.Tracking) Registry {
	client := &http.Client{Timeout: cfg.Timeout}
	endpoints := map[domain.Platform]string{
		domain.PlatformInstagram: cfg.InstagramEndpoint,
		domain.PlatformTikTok:    cfg.TikTokEndpoint,
	}
	reg := make(Registry, len(endpoints))
	for platform, endpoint := range endpoints {
		var f port.ViewFetcher = Unavailable{Platform: platform}
		if endpoint != "" {
			f = NewHTTPFetcher(client, endpoint, cfg.Token)
		}
		reg[platform] = NewRateLimited(f, rate.Limit(tracking.RatePerSecond), tracking.Burst)
	}
	return reg
}
