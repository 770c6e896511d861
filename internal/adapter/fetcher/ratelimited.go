package fetcher

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"campaign-earnings/internal/core/port"
)

// RateLimited throttles calls to the wrapped fetcher so a batch run never
// exceeds the upstream quota of a platform.
type RateLimited struct {
	next    port.ViewFetcher
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token bucket of limit per second. burst
// below 1 is raised to 1.
func NewRateLimited(next port.ViewFetcher, limit rate.Limit, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) Fetch(ctx context.Context, contentURL string) (int64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: rate limit wait: %v", port.ErrUpstreamUnavailable, err)
	}
	return r.next.Fetch(ctx, contentURL)
}
