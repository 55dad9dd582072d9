package handler

import (
	"net/http"

	"algoclub/internal/app/service"
	"algoclub/internal/common"

	"github.com/go-chi/chi/v5"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(ls *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.leaderboard)
}

func (h *LeaderboardHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardService.GetLeaderboard(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}
