package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(ctx context.Context, app domain.Application) error {
	defer r.s.lock(ctx)()
	for _, row := range r.s.applications {
		if row.CampaignID == app.CampaignID && row.CreatorID == app.CreatorID && row.Status != domain.ApplicationStatusWithdrawn {
			return port.ErrDuplicateApplication
		}
	}
	r.s.applications[app.ID] = app
	return nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.applications[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *ApplicationRepository) FindActive(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.Application, error) {
	defer r.s.lock(ctx)()
	for _, row := range r.s.applications {
		if row.CampaignID == campaignID && row.CreatorID == creatorID && row.Status != domain.ApplicationStatusWithdrawn {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.ApplicationStatus, at time.Time) error {
	return r.update(ctx, id, expectedVersion, at, func(app *domain.Application) {
		app.Status = status
		if status == domain.ApplicationStatusWithdrawn {
			app.WithdrawnAt = &at
		}
	})
}

func (r *ApplicationRepository) UpdateMessage(ctx context.Context, id uuid.UUID, expectedVersion int64, message string, at time.Time) error {
	return r.update(ctx, id, expectedVersion, at, func(app *domain.Application) {
		app.Message = message
	})
}

func (r *ApplicationRepository) update(ctx context.Context, id uuid.UUID, expectedVersion int64, at time.Time, fn func(*domain.Application)) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.applications[id]
	if !ok || row.Version != expectedVersion {
		return port.ErrConcurrentUpdate
	}
	fn(&row)
	row.Version++
	row.UpdatedAt = at
	r.s.applications[id] = row
	return nil
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, campaignID *uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, func(a domain.Application) bool {
		return a.Status == status && (campaignID == nil || a.CampaignID == *campaignID)
	}), nil
}

func (r *ApplicationRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, func(a domain.Application) bool {
		return a.CampaignID == campaignID && a.Status != domain.ApplicationStatusWithdrawn
	}), nil
}

func (r *ApplicationRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, func(a domain.Application) bool {
		return a.CreatorID == creatorID && a.Status != domain.ApplicationStatusWithdrawn
	}), nil
}

func (r *ApplicationRepository) ListForPair(ctx context.Context, campaignID, creatorID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx, func(a domain.Application) bool {
		return a.CampaignID == campaignID && a.CreatorID == creatorID && a.Status != domain.ApplicationStatusWithdrawn
	}), nil
}

func (r *ApplicationRepository) list(ctx context.Context, keep func(domain.Application) bool) []domain.Application {
	defer r.s.lock(ctx)()
	out := make([]domain.Application, 0)
	for _, row := range r.s.applications {
		if keep(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.Application) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

type ContentLinkRepository struct{ s *Store }

func (r *ContentLinkRepository) CreateBatch(ctx context.Context, links []domain.ContentLink) error {
	defer r.s.lock(ctx)()
	for _, l := range links {
		if _, ok := r.s.applications[l.ApplicationID]; !ok {
			return port.ErrApplicationNotFound
		}
	}
	for _, l := range links {
		r.s.links[l.ID] = l
	}
	return nil
}

func (r *ContentLinkRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ContentLink, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.links[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *ContentLinkRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	return r.list(ctx, func(l domain.ContentLink) bool { return l.ApplicationID == applicationID }), nil
}

func (r *ContentLinkRepository) ListSelectedByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	return r.list(ctx, func(l domain.ContentLink) bool {
		return l.ApplicationID == applicationID && l.SelectionStatus == domain.SelectionSelected
	}), nil
}

func (r *ContentLinkRepository) UpdateSelection(ctx context.Context, ids []uuid.UUID, isSelected bool, status domain.SelectionStatus, selectedAt *time.Time) error {
	defer r.s.lock(ctx)()
	for _, id := range ids {
		row, ok := r.s.links[id]
		if !ok {
			continue
		}
		row.IsSelected = isSelected
		row.SelectionStatus = status
		row.SelectedAt = selectedAt
		r.s.links[id] = row
	}
	return nil
}

func (r *ContentLinkRepository) UpdateViewCount(ctx context.Context, id uuid.UUID, views int64, checkedAt time.Time, override bool) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.links[id]
	if !ok {
		return port.ErrContentLinkNotFound
	}
	if !override && views < row.ViewsTracked {
		return fmt.Errorf("%w: link %s has %d, got %d", port.ErrCounterDecreased, id, row.ViewsTracked, views)
	}
	row.ViewsTracked = views
	row.LastCheckedAt = &checkedAt
	r.s.links[id] = row
	return nil
}

func (r *ContentLinkRepository) SumSelectedViews(ctx context.Context, campaignID, creatorID uuid.UUID) (int64, *time.Time, error) {
	defer r.s.lock(ctx)()
	var (
		views int64
		last  *time.Time
	)
	for _, l := range r.s.links {
		if l.SelectionStatus != domain.SelectionSelected {
			continue
		}
		app, ok := r.s.applications[l.ApplicationID]
		if !ok || app.CampaignID != campaignID || app.CreatorID != creatorID || app.Status == domain.ApplicationStatusWithdrawn {
			continue
		}
		views += l.ViewsTracked
		if l.LastCheckedAt != nil && (last == nil || l.LastCheckedAt.After(*last)) {
			t := *l.LastCheckedAt
			last = &t
		}
	}
	return views, last, nil
}

func (r *ContentLinkRepository) list(ctx context.Context, keep func(domain.ContentLink) bool) []domain.ContentLink {
	defer r.s.lock(ctx)()
	out := make([]domain.ContentLink, 0)
	for _, row := range r.s.links {
		if keep(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b domain.ContentLink) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

type CampaignRepository struct{ s *Store }

func (r *CampaignRepository) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.campaigns[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

type ViewTrackingRepository struct{ s *Store }

func (r *ViewTrackingRepository) Upsert(ctx context.Context, agg domain.CampaignViewTracking) error {
	defer r.s.lock(ctx)()
	r.s.tracking[pairKey{agg.CampaignID, agg.CreatorID}] = agg
	return nil
}

func (r *ViewTrackingRepository) Get(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.tracking[pairKey{campaignID, creatorID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}
