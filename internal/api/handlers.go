package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hyperengineering/selfhelp/internal/tracker"
	"github.com/hyperengineering/selfhelp/internal/types"
)

// StatsSource reports row counts for the health endpoint.
type StatsSource interface {
	GetStats(ctx context.Context) (*types.StoreStats, error)
}

// UserResolver maps an authenticated principal's email to a user ID.
type UserResolver interface {
	ResolveUserID(ctx context.Context, email string) (types.UserID, error)
}

// Handler implements the API handlers
type Handler struct {
	tracker  *tracker.Service
	resolver UserResolver
	stats    StatsSource
	version  string
}

// NewHandler creates a new Handler
func NewHandler(t *tracker.Service, resolver UserResolver, stats StatsSource, version string) *Handler {
	return &Handler{
		tracker:  t,
		resolver: resolver,
		stats:    stats,
		version:  version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStats(r.Context())
	if err != nil {
		slog.Error("health stats failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Stats:   *stats,
	})
}

// Me handles GET /api/v1/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := PrincipalFromContext(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid API token")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// userID resolves the authenticated principal to its user ID. On failure
// the response has already been written.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (types.UserID, bool) {
	user, err := PrincipalFromContext(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid API token")
		return "", false
	}
	id, err := h.resolver.ResolveUserID(r.Context(), user.Email)
	if err != nil {
		MapServiceError(w, r, err)
		return "", false
	}
	return id, true
}

// decodeJSON decodes the request body into v. An empty body is allowed
// when optional is true.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// queryInt parses an optional integer query parameter. Returns nil when
// the parameter is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter: must be an integer", name))
		return nil, false
	}
	return &n, true
}

// queryDate parses an optional YYYY-MM-DD query parameter. Returns the
// zero date when absent.
func queryDate(w http.ResponseWriter, r *http.Request, name string) (types.Date, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return types.Date{}, true
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter: %s", name, err.Error()))
		return types.Date{}, false
	}
	return d, true
}
