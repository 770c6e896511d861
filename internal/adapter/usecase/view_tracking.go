package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// DefaultRefreshConcurrency is the number of links fetched in parallel per
// application when none is configured.
const DefaultRefreshConcurrency = 4

// TrackingUseCase implements port.TrackingUseCase. It pulls view counts for
// selected links from the platform fetchers, stores them through the link
// registry and recomputes the (campaign, creator) aggregate.
type TrackingUseCase struct {
	apps      port.ApplicationRepository
	links     *ContentLinkRegistry
	tracking  port.ViewTrackingRepository
	fetchers  port.FetcherRegistry
	anomalies port.AnomalySink
	observer  port.TrackingObserver
	logger    *slog.Logger

	concurrency int
	now         func() time.Time
}

// NewTrackingUseCase wires the orchestrator. A nil anomalies sink or
// observer disables that output; concurrency <= 0 falls back to
// DefaultRefreshConcurrency.
func NewTrackingUseCase(
	apps port.ApplicationRepository,
	links *ContentLinkRegistry,
	tracking port.ViewTrackingRepository,
	fetchers port.FetcherRegistry,
	anomalies port.AnomalySink,
	observer port.TrackingObserver,
	logger *slog.Logger,
	concurrency int,
) *TrackingUseCase {
	if anomalies == nil {
		anomalies = nopSink{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if concurrency <= 0 {
		concurrency = DefaultRefreshConcurrency
	}
	return &TrackingUseCase{
		apps:        apps,
		links:       links,
		tracking:    tracking,
		fetchers:    fetchers,
		anomalies:   anomalies,
		observer:    observer,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// RefreshApplication refreshes every selected link of one application. A
// link whose fetcher cannot answer is skipped and left untouched; it never
// aborts its siblings. The only errors returned are failures to load the
// application or its links, to store the aggregate, or cancellation.
func (u *TrackingUseCase) RefreshApplication(ctx context.Context, applicationID uuid.UUID) (*port.RefreshResult, error) {
	app, err := u.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, storeErr("get application", err)
	}
	if app == nil {
		return nil, port.ErrApplicationNotFound
	}
	return u.refresh(ctx, *app)
}

// BatchRefresh refreshes all approved applications one after another,
// optionally restricted to a campaign. A failing application is logged and
// counted; the batch carries on. Cancelling ctx stops the batch before the
// next application and returns the partial summary with ctx.Err().
func (u *TrackingUseCase) BatchRefresh(ctx context.Context, campaignID *uuid.UUID) (summary *port.BatchSummary, err error) {
	start := u.now()
	summary = &port.BatchSummary{}
	defer func() {
		u.observer.BatchFinished(u.now().Sub(start), *summary, err)
	}()

	apps, err := u.apps.ListByStatus(ctx, domain.ApplicationStatusApproved, campaignID)
	if err != nil {
		return summary, storeErr("list approved applications", err)
	}

	for _, app := range apps {
		if err = ctx.Err(); err != nil {
			u.logger.Warn("view refresh batch interrupted",
				slog.Int("processed", summary.Applications),
				slog.Int("remaining", len(apps)-summary.Applications),
				slog.Any("error", err))
			return summary, err
		}
		summary.Applications++
		res, refreshErr := u.refresh(ctx, app)
		if refreshErr != nil {
			summary.Failed++
			u.logger.Error("application view refresh failed",
				slog.String("application_id", app.ID.String()),
				slog.Any("error", refreshErr))
			continue
		}
		if res.Updated() > 0 {
			summary.Updated++
		}
	}

	u.logger.Info("view refresh batch finished",
		slog.Int("applications", summary.Applications),
		slog.Int("updated", summary.Updated),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", u.now().Sub(start)))
	return summary, nil
}

// GetViewTracking returns the stored aggregate of a pair.
func (u *TrackingUseCase) GetViewTracking(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error) {
	agg, err := u.tracking.Get(ctx, campaignID, creatorID)
	if err != nil {
		return nil, storeErr("get view tracking", err)
	}
	if agg == nil {
		return nil, fmt.Errorf("%w: view tracking", port.ErrNotFound)
	}
	return agg, nil
}

func (u *TrackingUseCase) refresh(ctx context.Context, app domain.Application) (*port.RefreshResult, error) {
	selected, err := u.links.ListSelectedByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	result := &port.RefreshResult{ApplicationID: app.ID}
	if len(selected) == 0 {
		return result, nil
	}

	// Links are independent; each goroutine owns its slot in outcomes.
	outcomes := make([]domain.LinkRefresh, len(selected))
	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, link := range selected {
		g.Go(func() error {
			outcomes[i] = u.refreshLink(ctx, app, link)
			return nil
		})
	}
	_ = g.Wait()
	result.Links = outcomes

	if err = ctx.Err(); err != nil {
		return result, err
	}
	agg, err := u.recompute(ctx, app.CampaignID, app.CreatorID)
	if err != nil {
		return result, err
	}
	result.Tracking = agg
	return result, nil
}

func (u *TrackingUseCase) refreshLink(ctx context.Context, app domain.Application, link domain.ContentLink) (out domain.LinkRefresh) {
	out = domain.LinkRefresh{
		LinkID:        link.ID,
		Platform:      link.Platform,
		PreviousViews: link.ViewsTracked,
	}
	defer func() { u.observer.LinkRefreshed(link.Platform, out.Outcome) }()

	log := u.logger.With(
		slog.String("application_id", app.ID.String()),
		slog.String("link_id", link.ID.String()),
		slog.String("platform", string(link.Platform)))

	fetcher, ok := u.fetchers.For(link.Platform)
	if !ok {
		out.Outcome, out.Reason = domain.RefreshSkipped, "no fetcher for platform"
		log.Warn("view fetch skipped", slog.String("reason", out.Reason))
		return out
	}
	count, err := fetcher.Fetch(ctx, link.URL)
	if err != nil {
		out.Outcome, out.Reason = domain.RefreshSkipped, err.Error()
		log.Warn("view fetch skipped", slog.Any("error", err))
		return out
	}
	if count < 0 {
		out.Outcome, out.Reason = domain.RefreshSkipped, "negative view count"
		log.Warn("view fetch skipped", slog.Int64("views", count))
		return out
	}

	out.FetchedViews = count
	out.Delta = count - link.ViewsTracked
	checkedAt := u.now().UTC()
	err = u.links.UpdateViewCount(ctx, link.ID, count, checkedAt, false)
	switch {
	case errors.Is(err, port.ErrCounterDecreased):
		out.Outcome, out.Reason = domain.RefreshDecreased, err.Error()
		log.Warn("view count decreased",
			slog.Int64("tracked", link.ViewsTracked),
			slog.Int64("reported", count))
		anomaly := domain.ViewAnomaly{
			LinkID:        link.ID,
			ApplicationID: app.ID,
			CampaignID:    app.CampaignID,
			CreatorID:     app.CreatorID,
			Platform:      link.Platform,
			URL:           link.URL,
			TrackedViews:  link.ViewsTracked,
			ReportedViews: count,
			DetectedAt:    checkedAt,
		}
		if err := u.anomalies.Report(ctx, anomaly); err != nil {
			log.Error("report view anomaly", slog.Any("error", err))
		}
	case err != nil:
		out.Outcome, out.Reason = domain.RefreshFailed, err.Error()
		log.Error("store view count", slog.Any("error", err))
	default:
		out.Outcome = domain.RefreshUpdated
		log.Debug("view count updated", slog.Int64("views", count), slog.Int64("delta", out.Delta))
	}
	return out
}

// recompute rebuilds the aggregate of a pair from link rows. Running it
// twice without link changes stores the same row.
func (u *TrackingUseCase) recompute(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error) {
	views, last, err := u.links.SumSelectedViews(ctx, campaignID, creatorID)
	if err != nil {
		return nil, err
	}
	agg := domain.CampaignViewTracking{
		CampaignID:    campaignID,
		CreatorID:     creatorID,
		ViewsTracked:  views,
		LastCheckedAt: last,
	}
	if err = u.tracking.Upsert(ctx, agg); err != nil {
		return nil, storeErr("upsert view tracking", err)
	}
	return &agg, nil
}

type nopSink struct{}

func (nopSink) Report(context.Context, domain.ViewAnomaly) error { return nil }

type nopObserver struct{}

func (nopObserver) LinkRefreshed(domain.Platform, domain.RefreshOutcome)  {}
func (nopObserver) BatchFinished(time.Duration, port.BatchSummary, error) {}
