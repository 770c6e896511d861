package domain

import "github.com/google/uuid"

// CampaignStatus is the lifecycle state of a brand campaign. Only active
// campaigns accept applications.
type CampaignStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"
	CampaignStatusEnded  CampaignStatus = "ended"
)

// PaymentModel decides how a creator is paid for an application.
type PaymentModel string

const (
	// PaymentModelFixed pays a flat amount per approved application.
	PaymentModelFixed PaymentModel = "fixed"
	// PaymentModelCPM pays per thousand views tracked on selected links.
	PaymentModelCPM PaymentModel = "cpm"
)

// Campaign is the read-only projection of a brand campaign used by the
// earnings engine. Campaign CRUD lives elsewhere; money is in the platform
// base currency.
type Campaign struct {
	ID           uuid.UUID
	BrandID      uuid.UUID
	Status       CampaignStatus
	PaymentModel PaymentModel
	CPMRate      *float64 // cost per thousand views
	FixedPrice   *float64
}
