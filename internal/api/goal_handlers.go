package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// ListGoals handles GET /api/v1/goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	goals, err := h.tracker.ListGoals(r.Context(), userID)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal handles POST /api/v1/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.CreateGoalRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	goal, err := h.tracker.CreateGoal(r.Context(), userID, req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// GetGoal handles GET /api/v1/goals/{id}
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	goal, err := h.tracker.GetGoal(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// UpdateGoal handles PUT /api/v1/goals/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.UpdateGoalRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	goal, err := h.tracker.UpdateGoal(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.tracker.DeleteGoal(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		MapServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogGoalProgress handles POST /api/v1/goals/{id}/progress
func (h *Handler) LogGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.GoalProgressRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	entry, err := h.tracker.LogGoalProgress(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GoalHistory handles GET /api/v1/goals/{id}/progress?days=N
func (h *Handler) GoalHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days")
	if !ok {
		return
	}
	rows, err := h.tracker.GoalHistory(r.Context(), userID, chi.URLParam(r, "id"), days)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// AllGoalProgress handles GET /api/v1/goals/{id}/progress/all
func (h *Handler) AllGoalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	rows, err := h.tracker.AllGoalProgress(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GoalDashboard handles GET /api/v1/goals/dashboard?date=YYYY-MM-DD
func (h *Handler) GoalDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	dash, err := h.tracker.GoalDashboard(r.Context(), userID, date)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
