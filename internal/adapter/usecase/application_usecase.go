package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// DefaultMaxLinks caps the number of content links per application when no
// limit is configured.
const DefaultMaxLinks = 10

// ApplicationUseCase implements port.ApplicationUseCase. It owns the
// application state machine and writes an application together with its
// links inside one transaction.
type ApplicationUseCase struct {
	tx        port.Transactor
	apps      port.ApplicationRepository
	links     *ContentLinkRegistry
	campaigns port.CampaignReader
	logger    *slog.Logger

	maxLinks int
	now      func() time.Time
}

// NewApplicationUseCase wires the lifecycle manager. maxLinks <= 0 falls
// back to DefaultMaxLinks.
func NewApplicationUseCase(
	tx port.Transactor,
	apps port.ApplicationRepository,
	links *ContentLinkRegistry,
	campaigns port.CampaignReader,
	logger *slog.Logger,
	maxLinks int,
) *ApplicationUseCase {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	return &ApplicationUseCase{
		tx:        tx,
		apps:      apps,
		links:     links,
		campaigns: campaigns,
		logger:    logger,
		maxLinks:  maxLinks,
		now:       time.Now,
	}
}

// Create stores a pending application and its links. Either both the
// application and every link are persisted or nothing is.
func (u *ApplicationUseCase) Create(ctx context.Context, actor domain.Actor, req port.CreateApplicationReq) (*port.ApplicationView, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	if actor.Role != domain.RoleInfluencer {
		return nil, port.ErrNotAnInfluencer
	}
	inputs, err := u.validateCreate(req)
	if err != nil {
		return nil, err
	}

	camp, err := u.loadCampaign(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if camp.Status != domain.CampaignStatusActive {
		return nil, port.ErrCampaignNotActive
	}

	existing, err := u.apps.FindActive(ctx, req.CampaignID, actor.UserID)
	if err != nil {
		return nil, storeErr("find application", err)
	}
	if existing != nil {
		return nil, port.ErrDuplicateApplication
	}

	now := u.now().UTC()
	app := domain.Application{
		ID:           uuid.New(),
		CampaignID:   req.CampaignID,
		CreatorID:    actor.UserID,
		Message:      strings.TrimSpace(req.Message),
		ProposedRate: req.ProposedRate,
		Deliverables: req.Deliverables,
		Status:       domain.ApplicationStatusPending,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	links := make([]domain.ContentLink, 0, len(inputs))
	for _, in := range inputs {
		links = append(links, domain.NewContentLink(app.ID, in.Platform, in.URL, now))
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.apps.Create(ctx, app); err != nil {
			return err
		}
		return u.links.Register(ctx, links)
	})
	if err != nil {
		return nil, storeErr("create application", err)
	}

	u.logger.Info("application created",
		slog.String("application_id", app.ID.String()),
		slog.String("campaign_id", app.CampaignID.String()),
		slog.Int("links", len(links)))
	return &port.ApplicationView{Application: app, Links: links}, nil
}

// Transition moves a pending application to approved, rejected or
// withdrawn. Only the owning creator may withdraw and only the brand that
// owns the campaign may approve or reject.
func (u *ApplicationUseCase) Transition(ctx context.Context, actor domain.Actor, req port.TransitionReq) (*port.ApplicationView, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	app, err := u.loadApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case domain.ApplicationStatusWithdrawn:
		if actor.Role != domain.RoleInfluencer || actor.UserID != app.CreatorID {
			return nil, fmt.Errorf("%w: only the applicant can withdraw", port.ErrUnauthorized)
		}
	case domain.ApplicationStatusApproved, domain.ApplicationStatusRejected:
		camp, err := u.loadCampaign(ctx, app.CampaignID)
		if err != nil {
			return nil, err
		}
		if actor.Role != domain.RoleBrand || actor.UserID != camp.BrandID {
			return nil, fmt.Errorf("%w: only the campaign owner can review", port.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("%w: unknown target status %q", port.ErrInvalidTransition, req.Status)
	}

	if !app.Status.CanTransition(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", port.ErrInvalidTransition, app.Status, req.Status)
	}

	links, err := u.links.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	var selected []uuid.UUID
	if req.Status == domain.ApplicationStatusApproved {
		if selected, err = selection(links, req.SelectedLinkIDs); err != nil {
			return nil, err
		}
	}

	now := u.now().UTC()
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.apps.UpdateStatus(ctx, app.ID, app.Version, req.Status, now); err != nil {
			return err
		}
		if err := u.links.SetSelection(ctx, linkIDs(links), false); err != nil {
			return err
		}
		return u.links.SetSelection(ctx, selected, true)
	})
	if err != nil {
		return nil, storeErr("transition application", err)
	}

	u.logger.Info("application transitioned",
		slog.String("application_id", app.ID.String()),
		slog.String("from", string(app.Status)),
		slog.String("to", string(req.Status)),
		slog.Int("selected_links", len(selected)))
	return u.view(ctx, app.ID)
}

// UpdateMessage replaces the message of a pending application owned by
// actor.
func (u *ApplicationUseCase) UpdateMessage(ctx context.Context, actor domain.Actor, id uuid.UUID, message string) (*port.ApplicationView, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", port.ErrInvalidInput)
	}
	app, err := u.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.UserID != app.CreatorID {
		return nil, fmt.Errorf("%w: only the applicant can edit", port.ErrUnauthorized)
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, fmt.Errorf("%w: %s applications cannot be edited", port.ErrInvalidState, app.Status)
	}
	if err = u.apps.UpdateMessage(ctx, id, app.Version, message, u.now().UTC()); err != nil {
		return nil, storeErr("update message", err)
	}
	return u.view(ctx, id)
}

// Get returns an application and its links to the applicant, the campaign
// owner or an admin.
func (u *ApplicationUseCase) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*port.ApplicationView, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	app, err := u.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && actor.UserID != app.CreatorID {
		camp, err := u.loadCampaign(ctx, app.CampaignID)
		if err != nil {
			return nil, err
		}
		if actor.UserID != camp.BrandID {
			return nil, port.ErrUnauthorized
		}
	}
	return u.view(ctx, id)
}

// ListForCampaign lists live applications of a campaign for its brand.
func (u *ApplicationUseCase) ListForCampaign(ctx context.Context, actor domain.Actor, campaignID uuid.UUID) ([]domain.Application, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	camp, err := u.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && actor.UserID != camp.BrandID {
		return nil, port.ErrUnauthorized
	}
	apps, err := u.apps.ListByCampaign(ctx, campaignID)
	return apps, storeErr("list applications", err)
}

// ListForCreator lists the caller's live applications.
func (u *ApplicationUseCase) ListForCreator(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	if !actor.Authenticated() {
		return nil, port.ErrUnauthenticated
	}
	if actor.Role != domain.RoleInfluencer {
		return nil, port.ErrNotAnInfluencer
	}
	apps, err := u.apps.ListByCreator(ctx, actor.UserID)
	return apps, storeErr("list applications", err)
}

// AuthorizePair checks that actor may read the tracking and earnings of a
// (campaign, creator) pair: the creator, the campaign owner or an admin.
func (u *ApplicationUseCase) AuthorizePair(ctx context.Context, actor domain.Actor, campaignID, creatorID uuid.UUID) error {
	if !actor.Authenticated() {
		return port.ErrUnauthenticated
	}
	camp, err := u.loadCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if actor.Role == domain.RoleAdmin || actor.UserID == creatorID || actor.UserID == camp.BrandID {
		return nil
	}
	return port.ErrUnauthorized
}

func (u *ApplicationUseCase) view(ctx context.Context, id uuid.UUID) (*port.ApplicationView, error) {
	app, err := u.loadApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := u.links.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return &port.ApplicationView{Application: *app, Links: links}, nil
}

func (u *ApplicationUseCase) loadApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := u.apps.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get application", err)
	}
	if app == nil {
		return nil, port.ErrApplicationNotFound
	}
	return app, nil
}

func (u *ApplicationUseCase) loadCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	camp, err := u.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, storeErr("get campaign", err)
	}
	if camp == nil {
		return nil, port.ErrCampaignNotFound
	}
	return camp, nil
}

type linkInput struct {
	Platform domain.Platform
	URL      string
}

func (u *ApplicationUseCase) validateCreate(req port.CreateApplicationReq) ([]linkInput, error) {
	if req.CampaignID == uuid.Nil {
		return nil, fmt.Errorf("%w: campaign id is required", port.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", port.ErrInvalidInput)
	}
	if req.ProposedRate != nil && *req.ProposedRate < 0 {
		return nil, fmt.Errorf("%w: proposed rate must not be negative", port.ErrInvalidInput)
	}
	if len(req.Links) == 0 {
		return nil, fmt.Errorf("%w: at least one content link is required", port.ErrInvalidInput)
	}
	if len(req.Links) > u.maxLinks {
		return nil, fmt.Errorf("%w: at most %d content links are allowed", port.ErrInvalidInput, u.maxLinks)
	}

	seen := make(map[string]struct{}, len(req.Links))
	out := make([]linkInput, 0, len(req.Links))
	for i, l := range req.Links {
		platform, ok := domain.ParsePlatform(l.Platform)
		if !ok {
			return nil, fmt.Errorf("%w: link %d: unsupported platform %q", port.ErrInvalidInput, i, l.Platform)
		}
		raw := strings.TrimSpace(l.URL)
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, fmt.Errorf("%w: link %d: invalid url", port.ErrInvalidInput, i)
		}
		if _, dup := seen[raw]; dup {
			return nil, fmt.Errorf("%w: link %d: duplicate url", port.ErrInvalidInput, i)
		}
		seen[raw] = struct{}{}
		out = append(out, linkInput{Platform: platform, URL: raw})
	}
	return out, nil
}

// selection checks that requested ids are a non-empty subset of the
// application's links and returns them without duplicates.
func selection(links []domain.ContentLink, requested []uuid.UUID) ([]uuid.UUID, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: approval requires at least one selected link", port.ErrInvalidInput)
	}
	owned := make(map[uuid.UUID]struct{}, len(links))
	for _, l := range links {
		owned[l.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(requested))
	out := make([]uuid.UUID, 0, len(requested))
	for _, id := range requested {
		if _, ok := owned[id]; !ok {
			return nil, fmt.Errorf("%w: %s", port.ErrSelectionMismatch, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
