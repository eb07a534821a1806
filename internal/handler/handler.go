// Package handler exposes the campaign service over HTTP: a thin JSON
// layer on chi that validates input and delegates to the dispatcher,
// store and sender directory.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/dripsend/pkg/campaign"
	"github.com/dmitrymomot/dripsend/pkg/senderpool"
)

// Dispatcher is the campaign-side surface the HTTP layer needs.
type Dispatcher interface {
	Start(ctx context.Context, c campaign.Campaign) (*campaign.Receipt, error)
	Cancel(jobID string) bool
	LatestJob() string
}

// Handler serves the campaign API.
type Handler struct {
	dispatcher Dispatcher
	store      campaign.Store
	dir        senderpool.Directory
	pool       *senderpool.Pool
	log        *slog.Logger
}

// New creates a Handler. A nil log falls back to a discarding logger.
func New(d Dispatcher, store campaign.Store, dir senderpool.Directory, pool *senderpool.Pool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		dispatcher: d,
		store:      store,
		dir:        dir,
		pool:       pool,
		log:        log,
	}
}

// Router builds the chi router with the full middleware stack and all
// routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(CORS())

	r.Get("/health", h.health)

	r.Get("/senders", h.listSenders)
	r.Post("/senders", h.createSender)
	r.Delete("/senders", h.deleteSender)

	r.Post("/bulk-send", h.bulkSend)
	r.Get("/campaign-status", h.campaignStatus)
	r.Get("/email-details", h.emailDetails)
	r.Post("/campaigns/{id}/cancel", h.cancelCampaign)

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
