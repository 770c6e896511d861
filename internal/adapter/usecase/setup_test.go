package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"campaign-earnings/internal/adapter/memory"
	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
	"campaign-earnings/internal/core/port/mocks"
)

type fetchers map[domain.Platform]port.ViewFetcher

func (f fetchers) For(p domain.Platform) (port.ViewFetcher, bool) {
	v, ok := f[p]
	return v, ok
}

// env is a fully wired set of use cases over the memory store.
type env struct {
	store     *memory.Store
	links     *ContentLinkRegistry
	apps      *ApplicationUseCase
	earnings  *EarningsUseCase
	tracking  *TrackingUseCase
	instagram *mocks.MockViewFetcher
	tiktok    *mocks.MockViewFetcher
	anomalies *mocks.MockAnomalySink

	brand    domain.Actor
	creator  domain.Actor
	campaign domain.Campaign
}

func newEnv(t *testing.T, camp func(*domain.Campaign)) *env {
	t.Helper()
	rate := 5.0
	e := &env{
		store:     memory.NewStore(),
		instagram: mocks.NewMockViewFetcher(t),
		tiktok:    mocks.NewMockViewFetcher(t),
		anomalies: mocks.NewMockAnomalySink(t),
		brand:     domain.Actor{UserID: uuid.New(), Role: domain.RoleBrand},
		creator:   domain.Actor{UserID: uuid.New(), Role: domain.RoleInfluencer},
	}
	e.campaign = domain.Campaign{
		ID:           uuid.New(),
		BrandID:      e.brand.UserID,
		Status:       domain.CampaignStatusActive,
		PaymentModel: domain.PaymentModelCPM,
		CPMRate:      &rate,
	}
	if camp != nil {
		camp(&e.campaign)
	}
	e.store.PutCampaign(e.campaign)
	e.wire(e.store.Applications(), e.store.ContentLinks())
	return e
}

// wire (re)builds the use cases on top of the given repositories so a test
// can slip in a failing decorator.
func (e *env) wire(apps port.ApplicationRepository, links port.ContentLinkRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.links = NewContentLinkRegistry(links)
	e.apps = NewApplicationUseCase(e.store, apps, e.links, e.store.Campaigns(), logger, 3)
	e.earnings = NewEarningsUseCase(apps, e.links, e.store.Campaigns())
	e.tracking = NewTrackingUseCase(apps, e.links, e.store.ViewTracking(),
		fetchers{domain.PlatformInstagram: e.instagram, domain.PlatformTikTok: e.tiktok},
		e.anomalies, nil, logger, 2)
}

func (e *env) apply(t *testing.T, urls ...string) *port.ApplicationView {
	t.Helper()
	req := port.CreateApplicationReq{CampaignID: e.campaign.ID, Message: "pick me"}
	for _, u := range urls {
		req.Links = append(req.Links, port.LinkInput{Platform: "instagram", URL: u})
	}
	view, err := e.apps.Create(context.Background(), e.creator, req)
	require.NoError(t, err)
	return view
}

func (e *env) approve(t *testing.T, view *port.ApplicationView, selected ...uuid.UUID) *port.ApplicationView {
	t.Helper()
	out, err := e.apps.Transition(context.Background(), e.brand, port.TransitionReq{
		ApplicationID:   view.Application.ID,
		Status:          domain.ApplicationStatusApproved,
		SelectedLinkIDs: selected,
	})
	require.NoError(t, err)
	return out
}

func (e *env) link(t *testing.T, id uuid.UUID) domain.ContentLink {
	t.Helper()
	l, err := e.links.Get(context.Background(), id)
	require.NoError(t, err)
	return *l
}

var errStoreDown = errors.New("store down")

// failingLinks fails every batch insert.
type failingLinks struct {
	*memory.ContentLinkRepository
}

func (failingLinks) CreateBatch(context.Context, []domain.ContentLink) error {
	return errStoreDown
}

// racingApps bumps the version of the application from inside the status
// update, as a concurrent writer committing first would.
type racingApps struct {
	*memory.ApplicationRepository
}

func (r racingApps) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.ApplicationStatus, at time.Time) error {
	if err := r.ApplicationRepository.UpdateMessage(ctx, id, expectedVersion, "edited meanwhile", at); err != nil {
		return err
	}
	return r.ApplicationRepository.UpdateStatus(ctx, id, expectedVersion, status, at)
}

// slowLinks delays writes of one particular count, so a competing writer
// can land first.
type slowLinks struct {
	*memory.ContentLinkRepository
	slowCount int64
	delay     time.Duration
}

func (r slowLinks) UpdateViewCount(ctx context.Context, id uuid.UUID, views int64, checkedAt time.Time, override bool) error {
	if views == r.slowCount {
		time.Sleep(r.delay)
	}
	return r.ContentLinkRepository.UpdateViewCount(ctx, id, views, checkedAt, override)
}
