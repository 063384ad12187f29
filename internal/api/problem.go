package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/selfhelp/internal/identity"
	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/tracker"
	"github.com/hyperengineering/selfhelp/internal/validation"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problemTypes maps HTTP status codes to RFC 7807 type URIs and titles.
var problemTypes = map[int]struct {
	typeURI string
	title   string
}{
	http.StatusUnauthorized: {
		typeURI: "https://selfhelp.dev/errors/unauthorized",
		title:   "Unauthorized",
	},
	http.StatusBadRequest: {
		typeURI: "https://selfhelp.dev/errors/bad-request",
		title:   "Bad Request",
	},
	http.StatusNotFound: {
		typeURI: "https://selfhelp.dev/errors/not-found",
		title:   "Not Found",
	},
	http.StatusInternalServerError: {
		typeURI: "https://selfhelp.dev/errors/internal-error",
		title:   "Internal Server Error",
	},
	http.StatusUnprocessableEntity: {
		typeURI: "https://selfhelp.dev/errors/validation-error",
		title:   "Validation Error",
	},
	http.StatusConflict: {
		typeURI: "https://selfhelp.dev/errors/conflict",
		title:   "Conflict",
	},
	http.StatusForbidden: {
		typeURI: "https://selfhelp.dev/errors/forbidden",
		title:   "Forbidden",
	},
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	pt, ok := problemTypes[status]
	if !ok {
		pt = struct {
			typeURI string
			title   string
		}{
			typeURI: "https://selfhelp.dev/errors/unknown",
			title:   http.StatusText(status),
		}
	}

	p := Problem{
		Type:     pt.typeURI,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// WriteProblemWithErrors writes a 422 Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, detail string, errs []validation.ValidationError) {
	pt := problemTypes[http.StatusUnprocessableEntity]

	p := ProblemWithErrors{
		Problem: Problem{
			Type:     pt.typeURI,
			Title:    pt.title,
			Status:   http.StatusUnprocessableEntity,
			Detail:   detail,
			Instance: r.URL.Path,
		},
		Errors: errs,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapServiceError converts tracker, identity and store errors to Problem
// Details responses.
func MapServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *tracker.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		WriteProblemWithErrors(w, r, "Request contains invalid fields", invalid.Errors)
	case errors.Is(err, tracker.ErrInvalidInput):
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrInvalidEmail):
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrForbidden):
		WriteProblem(w, r, http.StatusForbidden, "Resource belongs to another user")
	case errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, identity.ErrUnauthenticated):
		WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid API token")
	case errors.Is(err, store.ErrConflict):
		WriteProblem(w, r, http.StatusConflict, "Resource already exists")
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path, "method", r.Method)
		// Never expose internal error details to client
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
