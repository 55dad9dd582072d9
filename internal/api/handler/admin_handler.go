package handler

import (
	"encoding/json"
	"net/http"

	"algoclub/internal/api/middleware"
	"algoclub/internal/app/service"
	"algoclub/internal/common"
	"algoclub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the admin surface: the approval queue, the member
// directory, and problem-of-the-day management.
type AdminHandler struct {
	memberService       *service.MemberService
	problemService      *service.ProblemService
	verificationService *service.VerificationService
}

func NewAdminHandler(ms *service.MemberService, ps *service.ProblemService, vs *service.VerificationService) *AdminHandler {
	return &AdminHandler{memberService: ms, problemService: ps, verificationService: vs}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/pending", h.pendingMembers)
	r.Put("/members/{id}", h.setMemberStatus)
	r.Post("/potd", h.assignPOTD)
	r.Get("/problem-info", h.problemInfo)
	r.Get("/check-problem", h.checkProblem)

	r.Group(func(head chi.Router) {
		head.Use(middleware.HeadAdminOnly)
		head.Get("/members", h.listMembers)
		head.Post("/members", h.addMember)
	})
}

func (h *AdminHandler) pendingMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.PendingMembers(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, members)
}

type setStatusRequest struct {
	Status model.Status `json:"status"`
}

func (h *AdminHandler) setMemberStatus(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	member, err := h.memberService.SetStatus(r.Context(), memberID, req.Status)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, member)
}

func (h *AdminHandler) assignPOTD(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetMemberIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing member context")
		return
	}

	var req service.AssignPOTDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Problem == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem is required")
		return
	}

	problem, err := h.problemService.AssignPOTD(r.Context(), adminID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

// problemInfo previews a problem on the judge without assigning it.
func (h *AdminHandler) problemInfo(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("problem")
	if id == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem query parameter is required")
		return
	}

	info, err := h.problemService.CheckProblem(r.Context(), id)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, info)
}

// checkProblem sweeps every approved member against the current problem of
// the day. Slow by construction: one judge call per unchecked member.
func (h *AdminHandler) checkProblem(w http.ResponseWriter, r *http.Request) {
	result, err := h.verificationService.CheckAllMembers(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.AllMembers(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, members)
}

func (h *AdminHandler) addMember(w http.ResponseWriter, r *http.Request) {
	var req service.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	member, err := h.memberService.AddMember(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, member)
}
