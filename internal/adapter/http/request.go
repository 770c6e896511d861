package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campaign-earnings/internal/core/port"
)

const maxBodyBytes = 1 << 20

type createApplicationRequest struct {
	CampaignID   uuid.UUID          `json:"campaign_id"`
	Message      string             `json:"message"`
	ProposedRate *float64           `json:"proposed_rate,omitempty"`
	Deliverables *string            `json:"deliverables,omitempty"`
	Links        []linkInputRequest `json:"links"`
}

type linkInputRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type transitionRequest struct {
	Status          string      `json:"status"`
	SelectedLinkIDs []uuid.UUID `json:"selected_link_ids,omitempty"`
}

type updateMessageRequest struct {
	Message string `json:"message"`
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", port.ErrInvalidInput, err)
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", port.ErrInvalidInput, name)
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", port.ErrInvalidInput, name)
	}
	return &id, nil
}
