package port

import (
	"context"
	"time"

	"campaign-earnings/internal/core/domain"
)

// ViewFetcher returns the current cumulative view count of a content URL.
// Implementations must not have side effects visible to this service and
// must return an error wrapping ErrUpstreamUnavailable when they cannot
// answer.
type ViewFetcher interface {
	Fetch(ctx context.Context, contentURL string) (int64, error)
}

// FetcherRegistry resolves the fetcher for a platform.
type FetcherRegistry interface {
	For(platform domain.Platform) (ViewFetcher, bool)
}

// AnomalySink receives view count anomalies for operators.
type AnomalySink interface {
	Report(ctx context.Context, anomaly domain.ViewAnomaly) error
}

// TrackingObserver records refresh activity, typically as metrics.
type TrackingObserver interface {
	LinkRefreshed(platform domain.Platform, outcome domain.RefreshOutcome)
	BatchFinished(elapsed time.Duration, summary BatchSummary, err error)
}
