package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"campaign-earnings/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds the use cases that execute business logic and a logger for
// structured logging. Routes are registered on a chi.Router.
type Handler struct {
	apps     port.ApplicationUseCase
	earnings port.EarningsUseCase
	tracking port.TrackingUseCase
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured. metrics, when not
// nil, is mounted at /metrics outside the identity middleware.
func NewHandler(
	apps port.ApplicationUseCase,
	earnings port.EarningsUseCase,
	tracking port.TrackingUseCase,
	logger *slog.Logger,
	metrics http.Handler,
) *Handler {
	h := &Handler{apps: apps, earnings: earnings, tracking: tracking, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identify)

		r.Post("/applications", h.handleCreateApplication)
		r.Route("/applications/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetApplication)
			r.Patch("/message", h.handleUpdateMessage)
			r.Post("/transition", h.handleTransition)
			r.Get("/earnings", h.handleApplicationEarnings)
			r.Post("/refresh", h.handleRefreshApplication)
		})

		r.Get("/me/applications", h.handleListMyApplications)
		r.Get("/campaigns/{id}/applications", h.handleListCampaignApplications)
		r.Get("/campaigns/{id}/creators/{creatorID}/tracking", h.handleGetTracking)
		r.Get("/campaigns/{id}/creators/{creatorID}/earnings", h.handleCreatorEarnings)

		r.Post("/tracking/refresh", h.handleBatchRefresh)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
