package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campaign-earnings/internal/core/domain"
)

// CampaignRepository reads the campaign projection from the campaigns
// table maintained by the campaign service.
type CampaignRepository struct {
	db DB
}

func NewCampaignRepository(db DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// GetCampaign returns a campaign by id.
func (r *CampaignRepository) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var (
		c             domain.Campaign
		status, model string
	)
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, brand_id, status, payment_model, cpm_rate, fixed_price
FROM campaigns WHERE id = $1`, id).
		Scan(&c.ID, &c.BrandID, &status, &model, &c.CPMRate, &c.FixedPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Status = domain.CampaignStatus(status)
	c.PaymentModel = domain.PaymentModel(model)
	return &c, nil
}
