package anomaly

import (
	"context"
	"log/slog"

	"campaign-earnings/internal/core/domain"
)

// LogSink writes anomalies to the service log. It is the sink used when
// Kafka is disabled.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(ctx context.Context, a domain.ViewAnomaly) error {
	s.logger.WarnContext(ctx, "view count decreased",
		slog.String("link_id", a.LinkID.String()),
		slog.String("application_id", a.ApplicationID.String()),
		slog.String("campaign_id", a.CampaignID.String()),
		slog.String("creator_id", a.CreatorID.String()),
		slog.String("platform", string(a.Platform)),
		slog.String("url", a.URL),
		slog.Int64("tracked_views", a.TrackedViews),
		slog.Int64("reported_views", a.ReportedViews),
	)
	return nil
}
