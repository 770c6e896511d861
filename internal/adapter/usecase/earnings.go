package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// EarningsUseCase implements port.EarningsUseCase. CPM earnings are summed
// from live link rows on every call rather than read from the aggregate, so
// they always reflect the latest committed selection.
type EarningsUseCase struct {
	apps      port.ApplicationRepository
	links     *ContentLinkRegistry
	campaigns port.CampaignReader
}

func NewEarningsUseCase(apps port.ApplicationRepository, links *ContentLinkRegistry, campaigns port.CampaignReader) *EarningsUseCase {
	return &EarningsUseCase{apps: apps, links: links, campaigns: campaigns}
}

// Compute returns the payable amount of one application.
func (u *EarningsUseCase) Compute(ctx context.Context, applicationID uuid.UUID) (*port.Earnings, error) {
	app, err := u.apps.Get(ctx, applicationID)
	if err != nil {
		return nil, storeErr("get application", err)
	}
	if app == nil {
		return nil, port.ErrApplicationNotFound
	}
	camp, err := u.campaign(ctx, app.CampaignID)
	if err != nil {
		return nil, err
	}
	return u.compute(ctx, *app, *camp)
}

// ComputeForCreator sums the earnings of a creator's approved applications
// to a campaign.
func (u *EarningsUseCase) ComputeForCreator(ctx context.Context, campaignID, creatorID uuid.UUID) (*port.Earnings, error) {
	camp, err := u.campaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	apps, err := u.apps.ListForPair(ctx, campaignID, creatorID)
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	total := &port.Earnings{PaymentModel: camp.PaymentModel}
	for _, app := range apps {
		if app.Status != domain.ApplicationStatusApproved {
			continue
		}
		e, err := u.compute(ctx, app, *camp)
		if err != nil {
			return nil, err
		}
		total.SelectedViews += e.SelectedViews
		total.Amount += e.Amount
	}
	return total, nil
}

func (u *EarningsUseCase) compute(ctx context.Context, app domain.Application, camp domain.Campaign) (*port.Earnings, error) {
	switch camp.PaymentModel {
	case domain.PaymentModelFixed:
		return &port.Earnings{
			PaymentModel: camp.PaymentModel,
			Amount:       domain.FixedEarnings(app.ProposedRate, camp.FixedPrice),
		}, nil
	case domain.PaymentModelCPM:
		links, err := u.links.ListSelectedByApplication(ctx, app.ID)
		if err != nil {
			return nil, err
		}
		var views int64
		for _, l := range links {
			views += l.ViewsTracked
		}
		return &port.Earnings{
			PaymentModel:  camp.PaymentModel,
			SelectedViews: views,
			Amount:        domain.CPMEarnings(views, camp.CPMRate),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", port.ErrUnsupportedPaymentModel, camp.PaymentModel)
	}
}

func (u *EarningsUseCase) campaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	camp, err := u.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, storeErr("get campaign", err)
	}
	if camp == nil {
		return nil, port.ErrCampaignNotFound
	}
	return camp, nil
}
