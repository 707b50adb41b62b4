// Package handler provides HTTP request handlers for the gateway API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fapmendoza/admin-gateway/internal/backend"
	"github.com/fapmendoza/admin-gateway/internal/handler/dto"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// Handler wraps defaults shared by the plain API endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses on the API subtree.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes the uniform error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message, Code: code})
}

// api carries the dependencies every resource handler needs to apply
// the shared failure policy: classify the backend error, record the
// notification, and clear the session on credential rejection.
type api struct {
	store     kvstore.Store
	notifier  *workflow.Notifier
	logger    *slog.Logger
	loginPath string
}

// handleBackendError converts a failed backend call into the uniform
// response. This is the one place the 401 interceptor lives: whatever
// page triggered the call, a credential rejection clears the stored
// token and tells the SPA to navigate to login.
func (a *api) handleBackendError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, workflow.ErrSubmitInFlight):
		a.notifier.Error(sessionID, "A submission is already in progress")
		writeError(w, http.StatusConflict, "SUBMIT_IN_FLIGHT", "a submission is already in progress")

	case errors.Is(err, backend.ErrUnauthorized):
		_ = a.store.Delete(r.Context(), sessionID, kvstore.KeyAdminToken)
		a.logger.Warn("backend rejected session credentials, token cleared",
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
			Error:    "session expired",
			Code:     "SESSION_EXPIRED",
			Redirect: a.loginPath,
		})

	case errors.As(err, &apiErr):
		a.notifier.Error(sessionID, apiErr.UserMessage())
		writeError(w, apiErr.Status, "BACKEND_REJECTED", apiErr.UserMessage())

	case errors.Is(err, backend.ErrBackendUnavailable):
		// Server error and network unreachable intentionally collapse
		// to the same generic text.
		a.notifier.Error(sessionID, "Something went wrong, please try again")
		writeError(w, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "something went wrong, please try again")

	default:
		a.logger.Error("internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}

// sessionToken loads the stored backend credential for the session.
func (a *api) sessionToken(r *http.Request, sessionID string) string {
	token, _, err := a.store.Get(r.Context(), sessionID, kvstore.KeyAdminToken)
	if err != nil {
		a.logger.Error("session store read failed", slog.String("error", err.Error()))
		return ""
	}
	return token
}
