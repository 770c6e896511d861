package fetcher

import (
	"context"
	"fmt"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// Unavailable is the fetcher of a platform that has no integration yet.
type Unavailable struct {
	Platform domain.Platform
}

func (u Unavailable) Fetch(context.Context, string) (int64, error) {
	return 0, fmt.Errorf("%w: no view source for %s", port.ErrUpstreamUnavailable, u.Platform)
}
