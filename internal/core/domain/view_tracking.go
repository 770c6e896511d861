package domain

import (
	"time"

	"github.com/google/uuid"
)

// CampaignViewTracking is the per (campaign, creator) aggregate of views on
// selected links. It is always recomputed in full from link rows.
type CampaignViewTracking struct {
	CampaignID    uuid.UUID
	CreatorID     uuid.UUID
	ViewsTracked  int64
	LastCheckedAt *time.Time
}

// RefreshOutcome classifies what happened to one link during a refresh.
type RefreshOutcome string

const (
	RefreshUpdated   RefreshOutcome = "updated"
	RefreshSkipped   RefreshOutcome = "skipped"
	RefreshDecreased RefreshOutcome = "decreased"
	RefreshFailed    RefreshOutcome = "failed"
)

// LinkRefresh is the per-link report of a refresh run. Delta is informative
// only and is never persisted.
type LinkRefresh struct {
	LinkID        uuid.UUID
	Platform      Platform
	Outcome       RefreshOutcome
	PreviousViews int64
	FetchedViews  int64
	Delta         int64
	Reason        string
}

// ViewAnomaly is raised when a platform reports fewer views than already
// tracked for a link (for example after the content was deleted).
type ViewAnomaly struct {
	LinkID        uuid.UUID
	ApplicationID uuid.UUID
	CampaignID    uuid.UUID
	CreatorID     uuid.UUID
	Platform      Platform
	URL           string
	TrackedViews  int64
	ReportedViews int64
	DetectedAt    time.Time
}
