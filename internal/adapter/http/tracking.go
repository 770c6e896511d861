package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// handleApplicationEarnings returns what an application has earned so far.
// Anyone allowed to read the application may read its earnings.
func (h *Handler) handleApplicationEarnings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "compute earnings", err)
		return
	}
	if _, err = h.apps.Get(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.writeError(w, r, "compute earnings", err)
		return
	}
	earnings, err := h.earnings.Compute(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "compute earnings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEarnings(earnings))
}

func (h *Handler) handleCreatorEarnings(w http.ResponseWriter, r *http.Request) {
	campaignID, creatorID, ok := h.pair(w, r, "compute earnings")
	if !ok {
		return
	}
	earnings, err := h.earnings.ComputeForCreator(r.Context(), campaignID, creatorID)
	if err != nil {
		h.writeError(w, r, "compute earnings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEarnings(earnings))
}

// handleGetTracking returns the view aggregate of a creator in a campaign.
// A pair that was never refreshed is 404.
func (h *Handler) handleGetTracking(w http.ResponseWriter, r *http.Request) {
	campaignID, creatorID, ok := h.pair(w, r, "get tracking")
	if !ok {
		return
	}
	tracking, err := h.tracking.GetViewTracking(r.Context(), campaignID, creatorID)
	if err != nil {
		h.writeError(w, r, "get tracking", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTracking(tracking))
}

func (h *Handler) handleRefreshApplication(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		h.writeError(w, r, "refresh application", err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "refresh application", err)
		return
	}
	res, err := h.tracking.RefreshApplication(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "refresh application", err)
		return
	}
	resp := refreshResponse{
		ApplicationID: res.ApplicationID,
		Links:         make([]linkRefreshResponse, 0, len(res.Links)),
		Tracking:      toTracking(res.Tracking),
	}
	for _, l := range res.Links {
		resp.Links = append(resp.Links, linkRefreshResponse{
			LinkID:        l.LinkID,
			Platform:      string(l.Platform),
			Outcome:       string(l.Outcome),
			PreviousViews: l.PreviousViews,
			FetchedViews:  l.FetchedViews,
			Delta:         l.Delta,
			Reason:        l.Reason,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleBatchRefresh runs a batch in the request. The optional campaign_id
// query parameter restricts it to one campaign.
func (h *Handler) handleBatchRefresh(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r); err != nil {
		h.writeError(w, r, "batch refresh", err)
		return
	}
	campaignID, err := queryUUID(r, "campaign_id")
	if err != nil {
		h.writeError(w, r, "batch refresh", err)
		return
	}
	summary, err := h.tracking.BatchRefresh(r.Context(), campaignID)
	if err != nil {
		h.writeError(w, r, "batch refresh", err)
		return
	}
	h.writeJSON(w, http.StatusOK, batchResponse{
		Applications: summary.Applications,
		Updated:      summary.Updated,
		Failed:       summary.Failed,
	})
}

// pair parses the (campaign, creator) path and checks the caller may read
// it. On failure the error response is already written.
func (h *Handler) pair(w http.ResponseWriter, r *http.Request, op string) (campaignID, creatorID uuid.UUID, ok bool) {
	campaignID, err := pathUUID(r, "id")
	if err == nil {
		creatorID, err = pathUUID(r, "creatorID")
	}
	if err == nil {
		err = h.apps.AuthorizePair(r.Context(), actorFrom(r.Context()), campaignID, creatorID)
	}
	if err != nil {
		h.writeError(w, r, op, err)
		return uuid.Nil, uuid.Nil, false
	}
	return campaignID, creatorID, true
}

func requireAdmin(r *http.Request) error {
	actor := actorFrom(r.Context())
	if !actor.Authenticated() {
		return port.ErrUnauthenticated
	}
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin only", port.ErrUnauthorized)
	}
	return nil
}
