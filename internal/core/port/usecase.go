package port

import (
	"context"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
)

// ApplicationUseCase is the Application Lifecycle Manager: creation of an
// application with its links and the pending -> approved/rejected/withdrawn
// state machine.
type ApplicationUseCase interface {
	// Create stores a pending application and its content links
	// atomically.
	Create(ctx context.Context, actor domain.Actor, req CreateApplicationReq) (*ApplicationView, error)
	// Transition applies a status change requested by actor. Approval
	// requires SelectedLinkIDs; rejection and withdrawal ignore them.
	Transition(ctx context.Context, actor domain.Actor, req TransitionReq) (*ApplicationView, error)
	// UpdateMessage lets the owning creator edit a pending application.
	UpdateMessage(ctx context.Context, actor domain.Actor, id uuid.UUID, message string) (*ApplicationView, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*ApplicationView, error)
	ListForCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID) ([]domain.Application, error)
	ListForCreator(ctx context.Context, actor domain.Actor) ([]domain.Application, error)
	// AuthorizePair fails unless actor may read the aggregate of the
	// (campaign, creator) pair.
	AuthorizePair(ctx context.Context, actor domain.Actor, campaignID, creatorID uuid.UUID) error
}

// EarningsUseCase is the Earnings Calculator.
type EarningsUseCase interface {
	Compute(ctx context.Context, applicationID uuid.UUID) (*Earnings, error)
	ComputeForCreator(ctx context.Context, campaignID, creatorID uuid.UUID) (*Earnings, error)
}

// TrackingUseCase is the View Tracking Batch Orchestrator.
type TrackingUseCase interface {
	// RefreshApplication refreshes the selected links of one application
	// and recomputes its (campaign, creator) aggregate. Fetcher failures
	// are reported per link and never returned as an error.
	RefreshApplication(ctx context.Context, applicationID uuid.UUID) (*RefreshResult, error)
	// BatchRefresh refreshes every approved application, optionally
	// restricted to one campaign.
	BatchRefresh(ctx context.Context, campaignID *uuid.UUID) (*BatchSummary, error)
	GetViewTracking(ctx context.Context, campaignID, creatorID uuid.UUID) (*domain.CampaignViewTracking, error)
}

// CreateApplicationReq carries the creator supplied fields of a new
// application.
type CreateApplicationReq struct {
	CampaignID   uuid.UUID
	Message      string
	ProposedRate *float64
	Deliverables *string
	Links        []LinkInput
}

// LinkInput is one content link submitted with an application.
type LinkInput struct {
	Platform string
	URL      string
}

// TransitionReq asks for a status change of an application.
type TransitionReq struct {
	ApplicationID   uuid.UUID
	Status          domain.ApplicationStatus
	SelectedLinkIDs []uuid.UUID
}

// ApplicationView is an application together with its content links.
type ApplicationView struct {
	Application domain.Application
	Links       []domain.ContentLink
}

// Earnings is the payable amount computed for an application or pair.
type Earnings struct {
	PaymentModel  domain.PaymentModel
	SelectedViews int64
	Amount        float64
}

// RefreshResult lists the per-link outcomes of one application refresh and
// the recomputed aggregate.
type RefreshResult struct {
	ApplicationID uuid.UUID
	Links         []domain.LinkRefresh
	Tracking      *domain.CampaignViewTracking
}

// Updated reports how many links received a new count.
func (r RefreshResult) Updated() int {
	n := 0
	for _, l := range r.Links {
		if l.Outcome == domain.RefreshUpdated {
			n++
		}
	}
	return n
}

// BatchSummary counts what a batch run did.
type BatchSummary struct {
	Applications int
	Updated      int // applications with at least one updated link
	Failed       int // applications that could not be refreshed at all
}
