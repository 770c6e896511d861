package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// ContentLinkRegistry owns the selection sub-lifecycle of content links. All
// writes go through it so that is_selected and selection_status never
// disagree and tracked view counts never move backwards by accident.
type ContentLinkRegistry struct {
	repo port.ContentLinkRepository
	now  func() time.Time
}

// NewContentLinkRegistry wraps a content link repository.
func NewContentLinkRegistry(repo port.ContentLinkRepository) *ContentLinkRegistry {
	return &ContentLinkRegistry{repo: repo, now: time.Now}
}

// Register stores freshly created links. Every link must be in its initial
// state: pending, unselected and with no tracked views.
func (r *ContentLinkRegistry) Register(ctx context.Context, links []domain.ContentLink) error {
	for _, l := range links {
		if l.IsSelected || l.SelectionStatus != domain.SelectionPending || l.ViewsTracked != 0 {
			return fmt.Errorf("%w: link %s is not in its initial state", port.ErrInvalidInput, l.ID)
		}
	}
	return storeErr("create content links", r.repo.CreateBatch(ctx, links))
}

// Get returns a single link.
func (r *ContentLinkRegistry) Get(ctx context.Context, id uuid.UUID) (*domain.ContentLink, error) {
	link, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get content link", err)
	}
	if link == nil {
		return nil, port.ErrContentLinkNotFound
	}
	return link, nil
}

func (r *ContentLinkRegistry) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	links, err := r.repo.ListByApplication(ctx, applicationID)
	return links, storeErr("list content links", err)
}

func (r *ContentLinkRegistry) ListSelectedByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error) {
	links, err := r.repo.ListSelectedByApplication(ctx, applicationID)
	return links, storeErr("list selected content links", err)
}

// SetSelection marks ids as selected (with a fresh selection timestamp) or
// as not selected.
func (r *ContentLinkRegistry) SetSelection(ctx context.Context, ids []uuid.UUID, selected bool) error {
	if len(ids) == 0 {
		return nil
	}
	status := domain.SelectionNotSelected
	var at *time.Time
	if selected {
		now := r.now().UTC()
		status, at = domain.SelectionSelected, &now
	}
	return storeErr("update selection", r.repo.UpdateSelection(ctx, ids, selected, status, at))
}

// UpdateViewCount stores a new cumulative count for a link. A negative count
// is always rejected; a count lower than the tracked one is rejected with
// ErrCounterDecreased unless override is set.
func (r *ContentLinkRegistry) UpdateViewCount(ctx context.Context, id uuid.UUID, newCount int64, checkedAt time.Time, override bool) error {
	if newCount < 0 {
		return fmt.Errorf("%w: negative view count %d", port.ErrInvalidInput, newCount)
	}
	return storeErr("update view count", r.repo.UpdateViewCount(ctx, id, newCount, checkedAt.UTC(), override))
}

// SumSelectedViews returns the views on selected links across all of a
// creator's live applications to a campaign.
func (r *ContentLinkRegistry) SumSelectedViews(ctx context.Context, campaignID, creatorID uuid.UUID) (int64, *time.Time, error) {
	views, last, err := r.repo.SumSelectedViews(ctx, campaignID, creatorID)
	return views, last, storeErr("sum selected views", err)
}

func linkIDs(links []domain.ContentLink) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}
	return ids
}
