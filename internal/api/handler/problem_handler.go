package handler

import (
	"net/http"
	"strconv"

	"algoclub/internal/app/service"
	"algoclub/internal/common"
	"algoclub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Get("/today", h.today)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	problems, total, err := h.problemService.ListProblems(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type paginatedProblemsResponse struct {
		Problems []model.Problem `json:"problems"`
		Total    int             `json:"total"`
		Page     int             `json:"page"`
		PageSize int             `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, paginatedProblemsResponse{
		Problems: problems,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ProblemHandler) today(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.Today(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
