package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// ListHabits handles GET /api/v1/habits
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habits, err := h.tracker.ListHabits(r.Context(), userID)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// CreateHabit handles POST /api/v1/habits
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.CreateHabitRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	habit, err := h.tracker.CreateHabit(r.Context(), userID, req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// GetHabit handles GET /api/v1/habits/{id}
func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	habit, err := h.tracker.GetHabit(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// UpdateHabit handles PUT /api/v1/habits/{id}
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.UpdateHabitRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	habit, err := h.tracker.UpdateHabit(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/v1/habits/{id}
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.tracker.DeleteHabit(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		MapServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogHabit handles POST /api/v1/habits/{id}/logs
func (h *Handler) LogHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.HabitLogRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	entry, err := h.tracker.LogHabit(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HabitHistory handles GET /api/v1/habits/{id}/logs?days=N
func (h *Handler) HabitHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	days, ok := queryInt(w, r, "days")
	if !ok {
		return
	}
	logs, err := h.tracker.HabitHistory(r.Context(), userID, chi.URLParam(r, "id"), days)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// AllHabitLogs handles GET /api/v1/habits/{id}/logs/all
func (h *Handler) AllHabitLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	logs, err := h.tracker.AllHabitLogs(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HabitDashboard handles GET /api/v1/habits/today?date=YYYY-MM-DD
func (h *Handler) HabitDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	dash, err := h.tracker.HabitDashboard(r.Context(), userID, date)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
