package handler

import (
	"encoding/json"
	"net/http"

	"algoclub/internal/api/middleware"
	"algoclub/internal/app/service"
	"algoclub/internal/common"

	"github.com/go-chi/chi/v5"
)

// MemberHandler serves the member-facing surface: dashboard, personal stats,
// and solve verification.
type MemberHandler struct {
	statsService        *service.StatsService
	verificationService *service.VerificationService
}

func NewMemberHandler(ss *service.StatsService, vs *service.VerificationService) *MemberHandler {
	return &MemberHandler{statsService: ss, verificationService: vs}
}

func (h *MemberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/stats", h.stats)
	r.Post("/verify", h.verify)
}

func (h *MemberHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
		return
	}

	dashboard, err := h.statsService.GetDashboard(r.Context(), memberID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, dashboard)
}

func (h *MemberHandler) stats(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
		return
	}

	stats, err := h.statsService.MemberStats(r.Context(), memberID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

type verifyRequest struct {
	ProblemID string `json:"problem_id"`
}

func (h *MemberHandler) verify(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ProblemID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem_id is required")
		return
	}

	result, err := h.verificationService.Verify(r.Context(), memberID, req.ProblemID)
	if err != nil {
		if result != nil && result.State == service.StateFailed {
			// Judge-side failure: surface the judge's message with the
			// mapped status, keeping the state machine visible to clients.
			common.RespondWithJSON(w, common.HTTPStatusFromError(err), result)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
