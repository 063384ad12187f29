package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// ListTodos handles GET /api/v1/todos?page=&size=&completed=
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var filter types.TodoFilter
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	if page != nil {
		filter.Page = *page
	}
	size, ok := queryInt(w, r, "size")
	if !ok {
		return
	}
	if size != nil {
		filter.Size = *size
	}
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			WriteProblem(w, r, http.StatusBadRequest, "Invalid completed parameter: must be true or false")
			return
		}
		filter.Completed = &completed
	}

	result, err := h.tracker.ListTodos(r.Context(), userID, filter)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateTodo handles POST /api/v1/todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.CreateTodoRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	todo, err := h.tracker.CreateTodo(r.Context(), userID, req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// GetTodo handles GET /api/v1/todos/{id}
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	todo, err := h.tracker.GetTodo(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PUT /api/v1/todos/{id}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.UpdateTodoRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	todo, err := h.tracker.UpdateTodo(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// ToggleTodo handles PATCH /api/v1/todos/{id}/toggle. The body is optional.
func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req types.ToggleTodoRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	todo, err := h.tracker.ToggleTodo(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/v1/todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.tracker.DeleteTodo(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		MapServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TodoStats handles GET /api/v1/todos/stats
func (h *Handler) TodoStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	stats, err := h.tracker.TodoStats(r.Context(), userID)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
