package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campaign-earnings/internal/core/domain"
)

// Demo identifiers inserted by Seed. They are stable so local requests can
// be scripted against them.
var (
	DemoBrandID       = uuid.MustParse("00000000-0000-4000-8000-0000000000b1")
	DemoFixedCampaign = uuid.MustParse("00000000-0000-4000-8000-0000000000c1")
	DemoCPMCampaign   = uuid.MustParse("00000000-0000-4000-8000-0000000000c2")
)

// DemoCampaigns returns the campaign projections created by Seed.
func DemoCampaigns() []domain.Campaign {
	fixedPrice, cpmRate := 150.0, 5.0
	return []domain.Campaign{
		{
			ID:           DemoFixedCampaign,
			BrandID:      DemoBrandID,
			Status:       domain.CampaignStatusActive,
			PaymentModel: domain.PaymentModelFixed,
			FixedPrice:   &fixedPrice,
		},
		{
			ID:           DemoCPMCampaign,
			BrandID:      DemoBrandID,
			Status:       domain.CampaignStatusActive,
			PaymentModel: domain.PaymentModelCPM,
			CPMRate:      &cpmRate,
		},
	}
}

// Seed inserts the demo campaigns. Existing rows are left alone.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	for i, c := range DemoCampaigns() {
		_, err := db.Exec(ctx, `INSERT INTO campaigns
    (id, brand_id, title, status, payment_model, cpm_rate, fixed_price, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,now(),now()) ON CONFLICT DO NOTHING`,
			c.ID, c.BrandID, demoTitles[i], string(c.Status), string(c.PaymentModel), c.CPMRate, c.FixedPrice)
		if err != nil {
			return err
		}
	}
	return nil
}

var demoTitles = []string{"Summer launch (fixed)", "Always-on reach (CPM)"}
