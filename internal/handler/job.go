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
	"github.com/fapmendoza/admin-gateway/internal/model"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// JobHandler mediates job-offer management calls to the backend.
type JobHandler struct {
	api
	client    *backend.Client
	submitter *workflow.Submitter
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(client *backend.Client, store kvstore.Store, submitter *workflow.Submitter, notifier *workflow.Notifier, loginPath string, logger *slog.Logger) *JobHandler {
	return &JobHandler{
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

// List handles GET /admin/api/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	offers, err := h.client.ListOffers(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// Create handles POST /admin/api/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	var offer model.JobOffer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if offer.Title == "" {
		h.notifier.Error(sessionID, "Title is required")
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	var created *model.JobOffer
	err := h.submitter.Do(r.Context(), sessionID+":job-create", func(ctx context.Context) error {
		var err error
		created, err = h.client.CreateOffer(ctx, h.sessionToken(r, sessionID), offer)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Job offer created")
	h.logger.Info("job_created", slog.String("job_id", created.ID), slog.String("title", created.Title))
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /admin/api/jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "job id is required")
		return
	}

	var offer model.JobOffer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	offer.ID = id

	var updated *model.JobOffer
	err := h.submitter.Do(r.Context(), sessionID+":job-update:"+id, func(ctx context.Context) error {
		var err error
		updated, err = h.client.UpdateOffer(ctx, h.sessionToken(r, sessionID), offer)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Job offer updated")
	h.logger.Info("job_updated", slog.String("job_id", id))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/api/jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "job id is required")
		return
	}

	err := h.submitter.Do(r.Context(), sessionID+":job-delete:"+id, func(ctx context.Context) error {
		return h.client.DeleteOffer(ctx, h.sessionToken(r, sessionID), id)
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Job offer deleted")
	h.logger.Info("job_deleted", slog.String("job_id", id))
	w.WriteHeader(http.StatusNoContent)
}
