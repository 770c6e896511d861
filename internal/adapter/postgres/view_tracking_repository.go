package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campaign-earnings/internal/core/domain"
)

// ViewTrackingRepository implements port.ViewTrackingRepository.
type ViewTrackingRepository struct {
	db DB
}

func NewViewTrackingRepository(db DB) *ViewTrackingRepository {
	return &ViewTrackingRepository{db: db}
}

// Upsert overwrites the aggregate of a pair with a freshly computed value.
func (r *ViewTrackingRepository) Upsert(ctx context.Context, agg domain.CampaignViewTracking) error {
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO campaign_view_tracking
    (campaign_id, creator_id, views_tracked, last_checked_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (campaign_id, creator_id) DO UPDATE
SET views_tracked = EXCLUDED.views_tracked,
    last_checked_at = EXCLUDED.last_checked_at`,
		agg.CampaignID, agg.CreatorID, agg.ViewsTracked, agg.LastCheckedAt)
	return err
}

func (r *ViewTrackingRepository) Get(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error) {
	agg := domain.CampaignViewTracking{CampaignID: campaignID, CreatorID: creatorID}
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT views_tracked, last_checked_at
FROM campaign_view_tracking WHERE campaign_id = $1 AND creator_id = $2`, campaignID, creatorID).
		Scan(&agg.ViewsTracked, &agg.LastCheckedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
