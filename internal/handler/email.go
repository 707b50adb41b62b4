package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/backend"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/model"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// EmailHandler mediates the email-database CRUD surface.
type EmailHandler struct {
	api
	client    *backend.Client
	submitter *workflow.Submitter
}

// NewEmailHandler creates an EmailHandler.
func NewEmailHandler(client *backend.Client, store kvstore.Store, submitter *workflow.Submitter, notifier *workflow.Notifier, loginPath string, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
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

// List handles GET /admin/api/emails.
func (h *EmailHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	records, err := h.client.ListEmails(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Create handles POST /admin/api/emails.
// The address is the one required field; without it no backend call is
// made at all.
func (h *EmailHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	var record model.EmailRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	record.Email = strings.TrimSpace(record.Email)
	if record.Email == "" || !strings.Contains(record.Email, "@") {
		h.notifier.Error(sessionID, "A valid email address is required")
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "a valid email address is required")
		return
	}

	var created *model.EmailRecord
	err := h.submitter.Do(r.Context(), sessionID+":email-create", func(ctx context.Context) error {
		var err error
		created, err = h.client.CreateEmail(ctx, h.sessionToken(r, sessionID), record)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Email added")
	h.logger.Info("email_created", slog.String("email_id", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /admin/api/emails/{id}.
func (h *EmailHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "email id is required")
		return
	}

	var record model.EmailRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	record.ID = id

	var updated *model.EmailRecord
	err := h.submitter.Do(r.Context(), sessionID+":email-update:"+id, func(ctx context.Context) error {
		var err error
		updated, err = h.client.UpdateEmail(ctx, h.sessionToken(r, sessionID), record)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Email updated")
	h.logger.Info("email_updated", slog.String("email_id", id))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/api/emails/{id}.
func (h *EmailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "email id is required")
		return
	}

	err := h.submitter.Do(r.Context(), sessionID+":email-delete:"+id, func(ctx context.Context) error {
		return h.client.DeleteEmail(ctx, h.sessionToken(r, sessionID), id)
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Email removed")
	h.logger.Info("email_deleted", slog.String("email_id", id))
	w.WriteHeader(http.StatusNoContent)
}
