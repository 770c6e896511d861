package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

func TestScenarioApplyApproveRefreshEarn(t *testing.T) {
	e := newEnv(t, nil) // cpm rate 5
	const url = "https://www.instagram.com/p/launch/"

	view := e.apply(t, url)
	assert.Equal(t, domain.ApplicationStatusPending, view.Application.Status)
	link := e.link(t, view.Links[0].ID)
	assert.False(t, link.IsSelected)
	assert.Equal(t, domain.SelectionPending, link.SelectionStatus)
	assert.Zero(t, link.ViewsTracked)

	e.approve(t, view, link.ID)
	link = e.link(t, link.ID)
	assert.True(t, link.IsSelected)
	assert.Equal(t, domain.SelectionSelected, link.SelectionStatus)
	assert.Zero(t, link.ViewsTracked)

	e.instagram.EXPECT().Fetch(mock.Anything, url).Return(int64(4200), nil).Once()
	res, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, domain.RefreshUpdated, res.Links[0].Outcome)
	assert.Equal(t, int64(4200), res.Links[0].Delta)

	assert.Equal(t, int64(4200), e.link(t, link.ID).ViewsTracked)
	agg, err := e.tracking.GetViewTracking(context.Background(), e.campaign.ID, e.creator.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(4200), agg.ViewsTracked)

	got, err := e.earnings.Compute(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, got.Amount, 1e-9)
}

func TestRefreshIsolatesFetcherFailures(t *testing.T) {
	e := newEnv(t, nil)
	view := e.apply(t, "https://www.instagram.com/p/a/", "https://www.instagram.com/p/b/", "https://www.instagram.com/p/c/")
	e.approve(t, view, view.Links[0].ID, view.Links[1].ID, view.Links[2].ID)

	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/a/").Return(int64(100), nil).Once()
	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/b/").
		Return(int64(0), fmt.Errorf("%w: timeout", port.ErrUpstreamUnavailable)).Once()
	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/c/").Return(int64(300), nil).Once()

	res, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated())

	outcomes := map[uuid.UUID]domain.RefreshOutcome{}
	for _, l := range res.Links {
		outcomes[l.LinkID] = l.Outcome
	}
	assert.Equal(t, domain.RefreshUpdated, outcomes[view.Links[0].ID])
	assert.Equal(t, domain.RefreshSkipped, outcomes[view.Links[1].ID])
	assert.Equal(t, domain.RefreshUpdated, outcomes[view.Links[2].ID])

	failed := e.link(t, view.Links[1].ID)
	assert.Zero(t, failed.ViewsTracked)
	assert.Nil(t, failed.LastCheckedAt, "a skipped link keeps its timestamp")
	assert.Equal(t, int64(400), res.Tracking.ViewsTracked)
}

func TestRefreshSkipsPlatformWithoutFetcher(t *testing.T) {
	e := newEnv(t, nil)
	view := e.apply(t, "https://www.instagram.com/p/a/")
	e.approve(t, view, view.Links[0].ID)
	e.tracking.fetchers = fetchers{}

	res, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, domain.RefreshSkipped, res.Links[0].Outcome)
	assert.Equal(t, int64(0), res.Tracking.ViewsTracked)
}

func TestRefreshIsIdempotentWithoutNewData(t *testing.T) {
	e := newEnv(t, nil)
	view := e.apply(t, "https://www.instagram.com/p/a/")
	e.approve(t, view, view.Links[0].ID)

	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/a/").Return(int64(800), nil).Once()
	_, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	first, err := e.tracking.GetViewTracking(context.Background(), e.campaign.ID, e.creator.UserID)
	require.NoError(t, err)

	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/a/").
		Return(int64(0), port.ErrUpstreamUnavailable).Once()
	_, err = e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	second, err := e.tracking.GetViewTracking(context.Background(), e.campaign.ID, e.creator.UserID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRefreshWithSameCountAdvancesCheckTime(t *testing.T) {
	e := newEnv(t, nil)
	view := e.apply(t, "https://www.instagram.com/p/a/")
	e.approve(t, view, view.Links[0].ID)

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e.tracking.now = func() time.Time { return clock }

	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/a/").Return(int64(800), nil).Twice()
	_, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	first, err := e.tracking.GetViewTracking(context.Background(), e.campaign.ID, e.creator.UserID)
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	res, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, domain.RefreshUpdated, res.Links[0].Outcome)
	assert.Zero(t, res.Links[0].Delta)

	second, err := e.tracking.GetViewTracking(context.Background(), e.campaign.ID, e.creator.UserID)
	require.NoError(t, err)
	assert.Equal(t, first.ViewsTracked, second.ViewsTracked)
	require.NotNil(t, second.LastCheckedAt)
	assert.True(t, clock.Equal(*second.LastCheckedAt), "a repeated count still records the check")
	assert.True(t, second.LastCheckedAt.After(*first.LastCheckedAt))
}

func TestRefreshReportsDecreasedCount(t *testing.T) {
	e := newEnv(t, nil)
	const url = "https://www.instagram.com/p/deleted/"
	view := e.apply(t, url)
	e.approve(t, view, view.Links[0].ID)
	require.NoError(t, e.links.UpdateViewCount(context.Background(), view.Links[0].ID, 900, time.Now(), false))

	e.instagram.EXPECT().Fetch(mock.Anything, url).Return(int64(400), nil).Once()
	e.anomalies.EXPECT().
		Report(mock.Anything, mock.MatchedBy(func(a domain.ViewAnomaly) bool {
			return a.LinkID == view.Links[0].ID &&
				a.CreatorID == e.creator.UserID &&
				a.TrackedViews == 900 && a.ReportedViews == 400
		})).
		Return(errors.New("sink down")).Once()

	res, err := e.tracking.RefreshApplication(context.Background(), view.Application.ID)
	require.NoError(t, err, "a failing sink never fails the refresh")
	assert.Equal(t, domain.RefreshDecreased, res.Links[0].Outcome)
	assert.Equal(t, int64(900), e.link(t, view.Links[0].ID).ViewsTracked)
	assert.Equal(t, int64(900), res.Tracking.ViewsTracked)
}

func TestRefreshUnknownApplication(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.tracking.RefreshApplication(context.Background(), uuid.New())
	require.ErrorIs(t, err, port.ErrApplicationNotFound)
}

func TestBatchRefreshVisitsApprovedApplications(t *testing.T) {
	e := newEnv(t, nil)
	approved := e.apply(t, "https://www.instagram.com/p/a/")
	e.approve(t, approved, approved.Links[0].ID)

	// A second creator with a pending application is not refreshed.
	other := domain.Actor{UserID: uuid.New(), Role: domain.RoleInfluencer}
	_, err := e.apps.Create(context.Background(), other, port.CreateApplicationReq{
		CampaignID: e.campaign.ID,
		Message:    "me too",
		Links:      []port.LinkInput{{Platform: "tiktok", URL: "https://www.tiktok.com/@other/video/1"}},
	})
	require.NoError(t, err)

	e.instagram.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/a/").Return(int64(10), nil).Once()

	summary, err := e.tracking.BatchRefresh(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, port.BatchSummary{Applications: 1, Updated: 1}, *summary)

	elsewhere := uuid.New()
	summary, err = e.tracking.BatchRefresh(context.Background(), &elsewhere)
	require.NoError(t, err)
	assert.Zero(t, summary.Applications)
}

func TestBatchRefreshStopsOnCancellation(t *testing.T) {
	e := newEnv(t, nil)
	view := e.apply(t, "https://www.instagram.com/p/a/")
	e.approve(t, view, view.Links[0].ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := e.tracking.BatchRefresh(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Applications)
	assert.Zero(t, e.link(t, view.Links[0].ID).ViewsTracked)
}
