package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campaign-earnings/internal/adapter/fetcher"
	"campaign-earnings/internal/adapter/memory"
	"campaign-earnings/internal/adapter/metrics"
	"campaign-earnings/internal/adapter/usecase"
	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port/mocks"
)

type fixture struct {
	srv      *httptest.Server
	brand    uuid.UUID
	creator  uuid.UUID
	admin    uuid.UUID
	campaign uuid.UUID
	fetcher  *mocks.MockViewFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		brand:    uuid.New(),
		creator:  uuid.New(),
		admin:    uuid.New(),
		campaign: uuid.New(),
		fetcher:  mocks.NewMockViewFetcher(t),
	}
	rate := 5.0
	store := memory.NewStore()
	store.PutCampaign(domain.Campaign{
		ID:           f.campaign,
		BrandID:      f.brand,
		Status:       domain.CampaignStatusActive,
		PaymentModel: domain.PaymentModelCPM,
		CPMRate:      &rate,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	links := usecase.NewContentLinkRegistry(store.ContentLinks())
	apps := usecase.NewApplicationUseCase(store, store.Applications(), links, store.Campaigns(), logger, 0)
	earnings := usecase.NewEarningsUseCase(store.Applications(), links, store.Campaigns())
	reg := prometheus.NewRegistry()
	tracking := usecase.NewTrackingUseCase(
		store.Applications(), links, store.ViewTracking(),
		fetcher.Registry{domain.PlatformInstagram: f.fetcher},
		nil, metrics.NewTracking(reg), logger, 2,
	)

	h := NewHandler(apps, earnings, tracking, logger, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	f.srv = httptest.NewServer(h.Router())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, user uuid.UUID, role domain.Role, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rdr)
	require.NoError(t, err)
	if user != uuid.Nil {
		req.Header.Set(HeaderUserID, user.String())
		req.Header.Set(HeaderUserRole, string(role))
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *fixture) apply(t *testing.T) applicationResponse {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/v1/applications", f.creator, domain.RoleInfluencer, map[string]any{
		"campaign_id": f.campaign,
		"message":     "I'd love to post about this",
		"links": []map[string]string{
			{"platform": "instagram", "url": "https://www.instagram.com/p/one/"},
			{"platform": "instagram", "url": "https://www.instagram.com/p/two/"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var app applicationResponse
	require.NoError(t, json.Unmarshal(body, &app))
	return app
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)
	assert.Equal(t, "pending", app.Status)
	require.Len(t, app.Links, 2)

	resp, body := f.do(t, http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/transition", f.brand, domain.RoleBrand,
		map[string]any{"status": "approved", "selected_link_ids": []uuid.UUID{app.Links[0].ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var approved applicationResponse
	require.NoError(t, json.Unmarshal(body, &approved))
	assert.Equal(t, "approved", approved.Status)
	for _, l := range approved.Links {
		assert.Equal(t, l.ID == app.Links[0].ID, l.IsSelected)
	}

	f.fetcher.EXPECT().Fetch(mock.Anything, "https://www.instagram.com/p/one/").Return(int64(2000), nil).Once()
	resp, body = f.do(t, http.MethodPost, "/api/v1/tracking/refresh", f.admin, domain.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var batch batchResponse
	require.NoError(t, json.Unmarshal(body, &batch))
	assert.Equal(t, batchResponse{Applications: 1, Updated: 1}, batch)

	resp, body = f.do(t, http.MethodGet, "/api/v1/applications/"+app.ID.String()+"/earnings", f.creator, domain.RoleInfluencer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var earned earningsResponse
	require.NoError(t, json.Unmarshal(body, &earned))
	assert.Equal(t, earningsResponse{PaymentModel: "cpm", SelectedViews: 2000, Amount: 10}, earned)

	pair := "/api/v1/campaigns/" + f.campaign.String() + "/creators/" + f.creator.String()
	resp, body = f.do(t, http.MethodGet, pair+"/tracking", f.brand, domain.RoleBrand, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var tr trackingResponse
	require.NoError(t, json.Unmarshal(body, &tr))
	assert.Equal(t, int64(2000), tr.ViewsTracked)
	assert.NotNil(t, tr.LastCheckedAt)

	resp, _ = f.do(t, http.MethodGet, pair+"/earnings", uuid.New(), domain.RoleInfluencer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/metrics", uuid.Nil, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `view_tracking_link_refresh_total{outcome="updated",platform="instagram"} 1`)
}

func TestErrorStatusMapping(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)
	transition := "/api/v1/applications/" + app.ID.String() + "/transition"

	tests := []struct {
		name   string
		method string
		path   string
		user   uuid.UUID
		role   domain.Role
		body   any
		want   int
	}{
		{"unauthenticated", http.MethodGet, "/api/v1/me/applications", uuid.Nil, "", nil, http.StatusUnauthorized},
		{"brand cannot apply", http.MethodPost, "/api/v1/applications", f.brand, domain.RoleBrand,
			map[string]any{"campaign_id": f.campaign, "message": "x"}, http.StatusForbidden},
		{"duplicate application", http.MethodPost, "/api/v1/applications", f.creator, domain.RoleInfluencer,
			map[string]any{"campaign_id": f.campaign, "message": "again",
				"links": []map[string]string{{"platform": "tiktok", "url": "https://www.tiktok.com/@me/video/1"}}},
			http.StatusConflict},
		{"malformed body", http.MethodPost, transition, f.brand, domain.RoleBrand, "nope", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/v1/applications/not-a-uuid", f.creator, domain.RoleInfluencer, nil, http.StatusBadRequest},
		{"unknown application", http.MethodGet, "/api/v1/applications/" + uuid.NewString(), f.creator, domain.RoleInfluencer, nil, http.StatusNotFound},
		{"creator cannot approve", http.MethodPost, transition, f.creator, domain.RoleInfluencer,
			map[string]any{"status": "approved", "selected_link_ids": []uuid.UUID{app.Links[0].ID}}, http.StatusForbidden},
		{"approve without links", http.MethodPost, transition, f.brand, domain.RoleBrand,
			map[string]any{"status": "approved"}, http.StatusBadRequest},
		{"refresh needs admin", http.MethodPost, "/api/v1/tracking/refresh", f.brand, domain.RoleBrand, nil, http.StatusForbidden},
		{"tracking never refreshed", http.MethodGet,
			"/api/v1/campaigns/" + f.campaign.String() + "/creators/" + f.creator.String() + "/tracking",
			f.creator, domain.RoleInfluencer, nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, tt.method, tt.path, tt.user, tt.role, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}
}

func TestWithdrawAndReapply(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)

	resp, body := f.do(t, http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/transition", f.creator, domain.RoleInfluencer,
		map[string]any{"status": "withdrawn"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var withdrawn applicationResponse
	require.NoError(t, json.Unmarshal(body, &withdrawn))
	assert.Equal(t, "withdrawn", withdrawn.Status)
	assert.NotNil(t, withdrawn.WithdrawnAt)

	resp, body = f.do(t, http.MethodGet, "/api/v1/me/applications", f.creator, domain.RoleInfluencer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	again := f.apply(t)
	assert.NotEqual(t, app.ID, again.ID)
}

func TestUpdateMessage(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)

	resp, body := f.do(t, http.MethodPatch, "/api/v1/applications/"+app.ID.String()+"/message", f.creator, domain.RoleInfluencer,
		map[string]string{"message": "updated pitch"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got applicationResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "updated pitch", got.Message)

	resp, _ = f.do(t, http.MethodGet, "/api/v1/campaigns/"+f.campaign.String()+"/applications", f.brand, domain.RoleBrand, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
