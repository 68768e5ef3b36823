// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package handlers exposes the meeting pool over HTTP to internal
// collaborators: meeting create/end, join-token signing, and the admin
// surface over pool usage state.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
	"github.com/wellnesshq/meeting-pool-service/internal/service"
)

// MeetingsHandler routes inbound requests to the meeting pool service.
type MeetingsHandler struct {
	service *service.MeetingPoolService
}

// NewMeetingsHandler creates a new MeetingsHandler.
func NewMeetingsHandler(svc *service.MeetingPoolService) *MeetingsHandler {
	return &MeetingsHandler{service: svc}
}

// Routes mounts all service routes on the router.
func (h *MeetingsHandler) Routes(r chi.Router) {
	r.Post("/meetings", h.CreateMeeting)
	r.Delete("/meetings/{meetingID}", h.EndMeeting)
	r.Post("/meetings/{meetingNumber}/join-token", h.SignJoinToken)

	r.Get("/admin/usage", h.GetUsageStats)
	r.Get("/admin/accounts/{accountID}", h.GetAccount)
	r.Post("/admin/accounts/{accountID}/reset", h.ResetAccount)
	r.Post("/admin/accounts/reset", h.ResetAll)

	r.Get("/livez", h.Livez)
	r.Get("/readyz", h.Readyz)
}

// CreateMeeting handles POST /meetings.
func (h *MeetingsHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var request models.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body", err))
		return
	}

	result, err := h.service.CreateMeeting(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

type endMeetingPayload struct {
	AccountUsed string `json:"account_used"`
}

// EndMeeting handles DELETE /meetings/{meetingID}. The hosting account
// comes from the account_used query parameter or the request body.
func (h *MeetingsHandler) EndMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "meetingID")

	accountID := r.URL.Query().Get("account_used")
	if accountID == "" {
		var payload endMeetingPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			accountID = payload.AccountUsed
		}
	}
	if accountID == "" {
		writeError(w, r, domain.NewValidationError("account_used is required"))
		return
	}

	result, err := h.service.EndMeeting(r.Context(), meetingID, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

type signJoinTokenPayload struct {
	Role        int    `json:"role"`
	AccountUsed string `json:"account_used"`
}

// SignJoinToken handles POST /meetings/{meetingNumber}/join-token.
func (h *MeetingsHandler) SignJoinToken(w http.ResponseWriter, r *http.Request) {
	meetingNumber := chi.URLParam(r, "meetingNumber")

	var payload signJoinTokenPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, domain.NewValidationError("invalid request body", err))
		return
	}
	if payload.AccountUsed == "" {
		writeError(w, r, domain.NewValidationError("account_used is required"))
		return
	}
	if payload.Role != models.JoinRoleParticipant && payload.Role != models.JoinRoleHost {
		writeError(w, r, domain.NewValidationError("role must be 0 (participant) or 1 (host)"))
		return
	}

	result, err := h.service.SignJoinToken(r.Context(), meetingNumber, payload.Role, payload.AccountUsed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// GetUsageStats handles GET /admin/usage.
func (h *MeetingsHandler) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.service.Pool().UsageStats())
}

// GetAccount handles GET /admin/accounts/{accountID}.
func (h *MeetingsHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	stats, ok := h.service.Pool().UsageStats()[accountID]
	if !ok {
		writeError(w, r, domain.NewNotFoundError("account "+accountID+" not found in pool"))
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

type resetResponse struct {
	Reset bool `json:"reset"`
}

// ResetAccount handles POST /admin/accounts/{accountID}/reset.
func (h *MeetingsHandler) ResetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	if !h.service.Pool().Reset(accountID) {
		writeError(w, r, domain.NewNotFoundError("account "+accountID+" not found in pool"))
		return
	}
	writeJSON(w, r, http.StatusOK, resetResponse{Reset: true})
}

// ResetAll handles POST /admin/accounts/reset.
func (h *MeetingsHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	h.service.Pool().ResetAll()
	writeJSON(w, r, http.StatusOK, resetResponse{Reset: true})
}

// Livez handles GET /livez.
func (h *MeetingsHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz handles GET /readyz.
func (h *MeetingsHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !h.service.ServiceReady() {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	case domain.ErrorTypeExhausted:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", logging.ErrKey, err)
	} else {
		slog.WarnContext(r.Context(), "request rejected", logging.ErrKey, err)
	}

	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", logging.ErrKey, err)
	}
}
