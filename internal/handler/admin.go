package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/backend"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// AdminHandler mediates the remaining admin surfaces: backend
// configuration, matching scores and outreach proposals.
type AdminHandler struct {
	api
	client    *backend.Client
	submitter *workflow.Submitter
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(client *backend.Client, store kvstore.Store, submitter *workflow.Submitter, notifier *workflow.Notifier, loginPath string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		api: api{
			store:     store,
			notifier:  notifier,
			logger:    logger,
			loginPath: loginPath,
		},
		client:    client,
		submitter: submitter,
	}
}

// GetConfig handles GET /admin/api/config.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	cfg, err := h.client.GetAdminConfig(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// SetConfig handles POST /admin/api/config.
func (h *AdminHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	var cfg map[string]any
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	err := h.submitter.Do(r.Context(), sessionID+":config-save", func(ctx context.Context) error {
		return h.client.SetAdminConfig(ctx, h.sessionToken(r, sessionID), cfg)
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Configuration saved")
	h.logger.Info("admin_config_saved")
	w.WriteHeader(http.StatusNoContent)
}

// Matchings handles GET /admin/api/matchings.
func (h *AdminHandler) Matchings(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	matchings, err := h.client.ListMatchings(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, matchings)
}

// Proposals handles GET /admin/api/proposals.
func (h *AdminHandler) Proposals(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	proposals, err := h.client.ListProposals(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}

// SendProposal handles POST /admin/api/proposals/{id}/send.
// A second send for the same proposal while one is in flight is
// rejected by the submit guard; the backend stays the authority on
// whether a proposal was already delivered.
func (h *AdminHandler) SendProposal(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "proposal id is required")
		return
	}

	var sent any
	err := h.submitter.Do(r.Context(), sessionID+":proposal-send:"+id, func(ctx context.Context) error {
		var err error
		sent, err = h.client.SendProposal(ctx, h.sessionToken(r, sessionID), id)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Proposal sent")
	h.logger.Info("proposal_sent", slog.String("proposal_id", id))
	writeJSON(w, http.StatusOK, sent)
}
