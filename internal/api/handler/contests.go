package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/circle-go/internal/api/apierr"
	"github.com/mcoot/circle-go/internal/api/middleware"
	"github.com/mcoot/circle-go/internal/api/request"
	"github.com/mcoot/circle-go/internal/api/response"
	internalmw "github.com/mcoot/circle-go/internal/middleware"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/services/contest"
)

// ContestHandler handles contest endpoints
type ContestHandler struct {
	controller *contest.Controller
	metrics    *internalmw.Metrics
}

// NewContestHandler creates a new contest handler. metrics may be nil.
func NewContestHandler(controller *contest.Controller, metrics *internalmw.Metrics) *ContestHandler {
	return &ContestHandler{
		controller: controller,
		metrics:    metrics,
	}
}

// Generate handles GET /api/contests/generate
func (h *ContestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	c, err := h.controller.Generate(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.ContestEvent("generated")
	response.JSON(w, http.StatusOK, c)
}

// Active handles GET /api/contests/active
func (h *ContestHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	c, err := h.controller.Active(r.Context(), userID)
	if errors.Is(err, model.ErrNoActiveContest) {
		WriteError(w, apierr.New(http.StatusNotFound, "No active contest found"))
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

// MarkSolved handles POST /api/contests/mark-solved
func (h *ContestHandler) MarkSolved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.MarkSolvedRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.MarkSolved(r.Context(), userID, req.QuestionID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.ContestEvent("question_solved")
	response.JSON(w, http.StatusOK, result)
}

// Complete handles POST /api/contests/complete
func (h *ContestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	result, err := h.controller.Complete(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.ContestEvent("completed")
	response.JSON(w, http.StatusOK, result)
}

// Abandon handles POST /api/contests/abandon
func (h *ContestHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	id, err := h.controller.Abandon(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.ContestEvent("abandoned")
	response.JSON(w, http.StatusOK, response.Abandon{
		Success:   true,
		Message:   "Contest abandoned",
		ContestID: id,
	})
}

// History handles GET /api/contests/history
func (h *ContestHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	history, err := h.controller.History(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, history)
}

// List handles GET /api/contests/
func (h *ContestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	list, err := h.controller.List(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, list)
}

// Profile handles GET /api/contests/profile
func (h *ContestHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	identity, err := h.controller.Profile(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, identity)
}

// Get handles GET /api/contests/{id}
func (h *ContestHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid contest id"))
		return
	}

	c, err := h.controller.Get(r.Context(), userID, model.ContestID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}
