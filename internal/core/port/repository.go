package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
)

// Transactor runs fn inside a single store transaction. Repositories called
// with the ctx passed to fn take part in that transaction. If fn returns an
// error every write made through ctx is discarded.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ApplicationRepository is the outbound port for application rows.
// Get-style methods return nil, nil when no row matches.
type ApplicationRepository interface {
	// Create inserts a new application. It returns ErrDuplicateApplication
	// when a non-withdrawn application exists for the same pair.
	Create(ctx context.Context, app domain.Application) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	// FindActive returns the non-withdrawn application of a pair.
	FindActive(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.Application, error)
	// UpdateStatus moves the application to status if its version still
	// equals expectedVersion, otherwise ErrConcurrentUpdate is returned.
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status domain.ApplicationStatus, at time.Time) error
	// UpdateMessage rewrites the message under the same version check.
	UpdateMessage(ctx context.Context, id uuid.UUID, expectedVersion int64, message string, at time.Time) error
	// ListByStatus returns applications in status, optionally restricted
	// to one campaign, ordered by creation time.
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, campaignID *uuid.UUID) ([]domain.Application, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Application, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.Application, error)
	// ListForPair returns all non-withdrawn applications of a pair.
	ListForPair(ctx context.Context, campaignID, creatorID uuid.UUID) ([]domain.Application, error)
}

// ContentLinkRepository is the outbound port for content link rows. It
// stores what it is given; selection invariants are enforced by the
// registry above it.
type ContentLinkRepository interface {
	CreateBatch(ctx context.Context, links []domain.ContentLink) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ContentLink, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error)
	ListSelectedByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.ContentLink, error)
	// UpdateSelection writes the selection pair for ids. selectedAt is
	// stored as given (nil clears it).
	UpdateSelection(ctx context.Context, ids []uuid.UUID, isSelected bool, status domain.SelectionStatus, selectedAt *time.Time) error
	// UpdateViewCount writes views and checkedAt in one step. Unless
	// override is set, a views value below the stored one is refused with
	// ErrCounterDecreased and nothing is written.
	UpdateViewCount(ctx context.Context, id uuid.UUID, views int64, checkedAt time.Time, override bool) error
	// SumSelectedViews sums views over the selected links of every
	// non-withdrawn application of the pair and returns the latest check
	// time among them.
	SumSelectedViews(ctx context.Context, campaignID, creatorID uuid.UUID) (int64, *time.Time, error)
}

// CampaignReader exposes the campaign projection. Campaign CRUD is owned
// by another service.
type CampaignReader interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

// ViewTrackingRepository persists the per (campaign, creator) aggregate.
type ViewTrackingRepository interface {
	Upsert(ctx context.Context, agg domain.CampaignViewTracking) error
	Get(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error)
}

// Locker grants a best-effort exclusive lease on key. ok is false when the
// lease is held by someone else; release must be called when ok is true.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
