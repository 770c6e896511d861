package httpadapter

import (
	"net/http"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// handleCreateApplication submits a pending application with its content
// links for the calling influencer. It answers 201 with the stored
// application.
func (h *Handler) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var body createApplicationRequest
	if err := decode(r, &body); err != nil {
		h.writeError(w, r, "create application", err)
		return
	}
	req := port.CreateApplicationReq{
		CampaignID:   body.CampaignID,
		Message:      body.Message,
		ProposedRate: body.ProposedRate,
		Deliverables: body.Deliverables,
	}
	for _, l := range body.Links {
		req.Links = append(req.Links, port.LinkInput{Platform: l.Platform, URL: l.URL})
	}
	view, err := h.apps.Create(r.Context(), actorFrom(r.Context()), req)
	if err != nil {
		h.writeError(w, r, "create application", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toApplication(view.Application, view.Links))
}

func (h *Handler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "get application", err)
		return
	}
	view, err := h.apps.Get(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, "get application", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplication(view.Application, view.Links))
}

func (h *Handler) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "update message", err)
		return
	}
	var body updateMessageRequest
	if err = decode(r, &body); err != nil {
		h.writeError(w, r, "update message", err)
		return
	}
	view, err := h.apps.UpdateMessage(r.Context(), actorFrom(r.Context()), id, body.Message)
	if err != nil {
		h.writeError(w, r, "update message", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplication(view.Application, view.Links))
}

// handleTransition approves, rejects or withdraws an application. Approval
// carries the ids of the links the brand pays for.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "transition application", err)
		return
	}
	var body transitionRequest
	if err = decode(r, &body); err != nil {
		h.writeError(w, r, "transition application", err)
		return
	}
	view, err := h.apps.Transition(r.Context(), actorFrom(r.Context()), port.TransitionReq{
		ApplicationID:   id,
		Status:          domain.ApplicationStatus(body.Status),
		SelectedLinkIDs: body.SelectedLinkIDs,
	})
	if err != nil {
		h.writeError(w, r, "transition application", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplication(view.Application, view.Links))
}

func (h *Handler) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.ListForCreator(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, "list applications", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplications(apps))
}

func (h *Handler) handleListCampaignApplications(w http.ResponseWriter, r *http.Request) {
	campaignID, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, "list applications", err)
		return
	}
	apps, err := h.apps.ListForCampaign(r.Context(), actorFrom(r.Context()), campaignID)
	if err != nil {
		h.writeError(w, r, "list applications", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplications(apps))
}

func toApplications(apps []domain.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplication(app, nil))
	}
	return out
}
