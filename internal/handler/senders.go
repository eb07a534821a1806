package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/dripsend/pkg/senderpool"
)

// usernameRe constrains sender local-parts to safe address characters.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

type senderRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) listSenders(w http.ResponseWriter, r *http.Request) {
	domain := h.pool.Domain()
	locals, err := h.dir.List(r.Context(), domain)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list senders",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to list senders")
		return
	}

	senders := make([]string, len(locals))
	for i, local := range locals {
		senders[i] = local + "@" + domain
	}
	respondJSON(w, http.StatusOK, struct {
		Domain  string   `json:"domain"`
		Count   int      `json:"count"`
		Senders []string `json:"senders"`
	}{Domain: domain, Count: len(senders), Senders: senders})
}

func (h *Handler) createSender(w http.ResponseWriter, r *http.Request) {
	var req senderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	switch {
	case req.Username == "" || req.DisplayName == "":
		respondError(w, http.StatusBadRequest, "username and displayName are required")
		return
	case !usernameRe.MatchString(req.Username):
		respondError(w, http.StatusBadRequest, "username may only contain letters, digits and hyphens")
		return
	}

	domain := h.pool.Domain()
	if err := h.dir.Create(r.Context(), domain, req.Username, req.DisplayName); err != nil {
		h.log.ErrorContext(r.Context(), "failed to create sender",
			slog.String("username", req.Username), slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to create sender")
		return
	}
	h.pool.Invalidate()

	h.log.InfoContext(r.Context(), "sender created",
		slog.String("username", req.Username), slog.String("domain", domain))
	respondJSON(w, http.StatusCreated, map[string]any{
		"created": true,
		"email":   req.Username + "@" + domain,
	})
}

func (h *Handler) deleteSender(w http.ResponseWriter, r *http.Request) {
	var req senderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.Username == "":
		respondError(w, http.StatusBadRequest, "username is required")
		return
	case !usernameRe.MatchString(req.Username):
		respondError(w, http.StatusBadRequest, "username may only contain letters, digits and hyphens")
		return
	}

	domain := h.pool.Domain()
	if err := h.dir.Delete(r.Context(), domain, req.Username); err != nil {
		if errors.Is(err, senderpool.ErrSenderNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "failed to delete sender",
			slog.String("username", req.Username), slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to delete sender")
		return
	}
	h.pool.Invalidate()

	h.log.InfoContext(r.Context(), "sender deleted",
		slog.String("username", req.Username), slog.String("domain", domain))
	respondJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"email":   req.Username + "@" + domain,
	})
}
