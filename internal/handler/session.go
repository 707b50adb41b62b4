package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/handler/dto"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/middleware"
)

// SessionHandler manages gateway sessions: it stores the backend-issued
// token at login and clears it at logout.
type SessionHandler struct {
	store      kvstore.Store
	gate       *auth.Gate
	sessionTTL time.Duration
	logger     *slog.Logger
	secure     bool
}

// NewSessionHandler creates a SessionHandler.
// secure controls the session cookie's Secure flag.
func NewSessionHandler(store kvstore.Store, gate *auth.Gate, sessionTTL time.Duration, secure bool, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:      store,
		gate:       gate,
		sessionTTL: sessionTTL,
		logger:     logger,
		secure:     secure,
	}
}

// newSessionID mints a sortable session identifier.
func newSessionID() string {
	return ulid.Make().String()
}

// Create handles POST /admin/api/session.
// The SPA calls this after the backend login succeeds, handing over the
// issued token. A token the gate cannot interpret is rejected outright
// rather than stored (the gate would only bounce the next request).
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "token is required")
		return
	}

	state, ident := h.gate.Resolve(req.Token)
	if state != auth.Valid {
		writeError(w, http.StatusUnprocessableEntity, "UNUSABLE_TOKEN", "token cannot be interpreted as an identity")
		return
	}

	sessionID := newSessionID()
	if err := h.store.Set(r.Context(), sessionID, kvstore.KeyAdminToken, req.Token); err != nil {
		h.logger.Error("session store write failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("session_created", slog.String("admin_id", ident.ID))

	writeJSON(w, http.StatusCreated, dto.SessionResponse{
		SessionID: sessionID,
		Identity:  ident,
	})
}

// Current handles GET /admin/api/session.
// Runs behind the auth gate, so an identity is always present.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SessionResponse{
		SessionID: auth.SessionFromContext(r.Context()),
		Identity:  auth.IdentityFromContext(r.Context()),
	})
}

// Delete handles DELETE /admin/api/session (logout).
// Removes every key the session owns and expires the cookie. Other
// tabs sharing the same session lose it on their next request; other
// sessions are untouched.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.Error("session delete failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("session_deleted")

	w.WriteHeader(http.StatusNoContent)
}
