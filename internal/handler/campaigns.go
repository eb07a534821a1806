package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/dripsend/pkg/campaign"
	"github.com/dmitrymomot/dripsend/pkg/senderpool"
)

// detailsLimit is how many ledger entries the details endpoint returns.
const detailsLimit = 50

type bulkSendResponse struct {
	Accepted bool `json:"accepted"`
	*campaign.Receipt
}

func (h *Handler) bulkSend(w http.ResponseWriter, r *http.Request) {
	var c campaign.Campaign
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.dispatcher.Start(r.Context(), c)
	switch {
	case err == nil:
	case errors.Is(err, campaign.ErrMissingName),
		errors.Is(err, campaign.ErrMissingSubject),
		errors.Is(err, campaign.ErrMissingBody),
		errors.Is(err, campaign.ErrNoRecipients),
		errors.Is(err, senderpool.ErrNoSenders):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.log.ErrorContext(r.Context(), "failed to start campaign",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to start campaign")
		return
	}

	h.log.InfoContext(r.Context(), "campaign accepted",
		slog.String("job_id", receipt.JobID),
		slog.Int("recipients", receipt.Recipients),
		slog.Int("senders", receipt.Senders),
	)
	respondJSON(w, http.StatusAccepted, bulkSendResponse{Accepted: true, Receipt: receipt})
}

// resolveJob maps the optional ?job= query parameter to a job ID,
// defaulting to the most recently started campaign.
func (h *Handler) resolveJob(r *http.Request) string {
	if id := r.URL.Query().Get("job"); id != "" {
		return id
	}
	return h.dispatcher.LatestJob()
}

func (h *Handler) campaignStatus(w http.ResponseWriter, r *http.Request) {
	jobID := h.resolveJob(r)
	if jobID == "" {
		respondError(w, http.StatusNotFound, "no campaign has been started")
		return
	}

	st, err := h.store.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, campaign.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "failed to read campaign status",
			slog.String("job_id", jobID), slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to read campaign status")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		JobID string `json:"jobId"`
		campaign.Status
	}{JobID: jobID, Status: st})
}

func (h *Handler) emailDetails(w http.ResponseWriter, r *http.Request) {
	jobID := h.resolveJob(r)
	if jobID == "" {
		respondError(w, http.StatusNotFound, "no campaign has been started")
		return
	}

	st, err := h.store.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, campaign.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "failed to read campaign status",
			slog.String("job_id", jobID), slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to read email details")
		return
	}

	details, err := h.store.Details(r.Context(), jobID, detailsLimit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to read email details",
			slog.String("job_id", jobID), slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to read email details")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		JobID        string                  `json:"jobId"`
		CampaignName string                  `json:"campaignName"`
		Count        int                     `json:"count"`
		Details      []campaign.DetailRecord `json:"details"`
	}{JobID: jobID, CampaignName: st.CampaignName, Count: len(details), Details: details})
}

func (h *Handler) cancelCampaign(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if !h.dispatcher.Cancel(jobID) {
		respondError(w, http.StatusNotFound, "no running campaign with that job id")
		return
	}

	h.log.InfoContext(r.Context(), "campaign cancel requested", slog.String("job_id", jobID))
	respondJSON(w, http.StatusOK, map[string]any{"canceled": true, "jobId": jobID})
}
