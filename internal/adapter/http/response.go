package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type applicationResponse struct {
	ID           uuid.UUID             `json:"id"`
	CampaignID   uuid.UUID             `json:"campaign_id"`
	CreatorID    uuid.UUID             `json:"creator_id"`
	Message      string                `json:"message"`
	ProposedRate *float64              `json:"proposed_rate,omitempty"`
	Deliverables *string               `json:"deliverables,omitempty"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	WithdrawnAt  *time.Time            `json:"withdrawn_at,omitempty"`
	Links        []contentLinkResponse `json:"links,omitempty"`
}

type contentLinkResponse struct {
	ID              uuid.UUID  `json:"id"`
	Platform        string     `json:"platform"`
	URL             string     `json:"url"`
	IsSelected      bool       `json:"is_selected"`
	SelectionStatus string     `json:"selection_status"`
	ViewsTracked    int64      `json:"views_tracked"`
	LastCheckedAt   *time.Time `json:"last_checked_at,omitempty"`
	SelectedAt      *time.Time `json:"selected_at,omitempty"`
}

type earningsResponse struct {
	PaymentModel  string  `json:"payment_model"`
	SelectedViews int64   `json:"selected_views"`
	Amount        float64 `json:"amount"`
}

type trackingResponse struct {
	CampaignID    uuid.UUID  `json:"campaign_id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	ViewsTracked  int64      `json:"views_tracked"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

type linkRefreshResponse struct {
	LinkID        uuid.UUID `json:"link_id"`
	Platform      string    `json:"platform"`
	Outcome       string    `json:"outcome"`
	PreviousViews int64     `json:"previous_views"`
	FetchedViews  int64     `json:"fetched_views"`
	Delta         int64     `json:"delta"`
	Reason        string    `json:"reason,omitempty"`
}

type refreshResponse struct {
	ApplicationID uuid.UUID             `json:"application_id"`
	Links         []linkRefreshResponse `json:"links"`
	Tracking      *trackingResponse     `json:"tracking,omitempty"`
}

type batchResponse struct {
	Applications int `json:"applications"`
	Updated      int `json:"updated"`
	Failed       int `json:"failed"`
}

func toApplication(app domain.Application, links []domain.ContentLink) applicationResponse {
	resp := applicationResponse{
		ID:           app.ID,
		CampaignID:   app.CampaignID,
		CreatorID:    app.CreatorID,
		Message:      app.Message,
		ProposedRate: app.ProposedRate,
		Deliverables: app.Deliverables,
		Status:       string(app.Status),
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
		WithdrawnAt:  app.WithdrawnAt,
	}
	for _, l := range links {
		resp.Links = append(resp.Links, contentLinkResponse{
			ID:              l.ID,
			Platform:        string(l.Platform),
			URL:             l.URL,
			IsSelected:      l.IsSelected,
			SelectionStatus: string(l.SelectionStatus),
			ViewsTracked:    l.ViewsTracked,
			LastCheckedAt:   l.LastCheckedAt,
			SelectedAt:      l.SelectedAt,
		})
	}
	return resp
}

func toTracking(t *domain.CampaignViewTracking) *trackingResponse {
	if t == nil {
		return nil
	}
	return &trackingResponse{
		CampaignID:    t.CampaignID,
		CreatorID:     t.CreatorID,
		ViewsTracked:  t.ViewsTracked,
		LastCheckedAt: t.LastCheckedAt,
	}
}

func toEarnings(e *port.Earnings) earningsResponse {
	return earningsResponse{
		PaymentModel:  string(e.PaymentModel),
		SelectedViews: e.SelectedViews,
		Amount:        e.Amount,
	}
}

// statusOf maps an error kind to its HTTP status. Invalid input is a
// flavour of invalid state that the client can fix, hence 400.
func statusOf(err error) int {
	if errors.Is(err, port.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	switch port.KindOf(err) {
	case port.KindUnauthenticated:
		return http.StatusUnauthorized
	case port.KindUnauthorized:
		return http.StatusForbidden
	case port.KindNotFound:
		return http.StatusNotFound
	case port.KindInvalidState:
		return http.StatusConflict
	case port.KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// encoding should rarely fail; the status line is already out
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError logs server side failures and hides their details from the
// client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), op+" error", slog.Any("error", err))
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	h.writeJSON(w, status, errorResponse{Error: msg, Kind: string(port.KindOf(err))})
}
