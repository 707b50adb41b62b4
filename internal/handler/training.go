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

// TrainingHandler mediates course and lesson management.
type TrainingHandler struct {
	api
	client    *backend.Client
	submitter *workflow.Submitter
}

// NewTrainingHandler creates a TrainingHandler.
func NewTrainingHandler(client *backend.Client, store kvstore.Store, submitter *workflow.Submitter, notifier *workflow.Notifier, loginPath string, logger *slog.Logger) *TrainingHandler {
	return &TrainingHandler{
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

// ListCourses handles GET /admin/api/training/courses.
func (h *TrainingHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	courses, err := h.client.ListCourses(r.Context(), h.sessionToken(r, sessionID))
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /admin/api/training/courses.
func (h *TrainingHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if course.Title == "" {
		h.notifier.Error(sessionID, "Course title is required")
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "course title is required")
		return
	}

	var created *model.Course
	err := h.submitter.Do(r.Context(), sessionID+":course-create", func(ctx context.Context) error {
		var err error
		created, err = h.client.CreateCourse(ctx, h.sessionToken(r, sessionID), course)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Course created")
	h.logger.Info("course_created", slog.String("course_id", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCourse handles PUT /admin/api/training/courses/{id}.
func (h *TrainingHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "course id is required")
		return
	}

	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	course.ID = id

	var updated *model.Course
	err := h.submitter.Do(r.Context(), sessionID+":course-update:"+id, func(ctx context.Context) error {
		var err error
		updated, err = h.client.UpdateCourse(ctx, h.sessionToken(r, sessionID), course)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Course updated")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCourse handles DELETE /admin/api/training/courses/{id}.
func (h *TrainingHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "course id is required")
		return
	}

	err := h.submitter.Do(r.Context(), sessionID+":course-delete:"+id, func(ctx context.Context) error {
		return h.client.DeleteCourse(ctx, h.sessionToken(r, sessionID), id)
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Course deleted")
	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson handles POST /admin/api/training/courses/{id}/lessons.
func (h *TrainingHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	courseID := chi.URLParam(r, "id")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "course id is required")
		return
	}

	var lesson model.Lesson
	if err := json.NewDecoder(r.Body).Decode(&lesson); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	lesson.CourseID = courseID
	if lesson.Title == "" {
		h.notifier.Error(sessionID, "Lesson title is required")
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "lesson title is required")
		return
	}

	var created *model.Lesson
	err := h.submitter.Do(r.Context(), sessionID+":lesson-create:"+courseID, func(ctx context.Context) error {
		var err error
		created, err = h.client.CreateLesson(ctx, h.sessionToken(r, sessionID), lesson)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Lesson created")
	writeJSON(w, http.StatusCreated, created)
}

// UpdateLesson handles PUT /admin/api/training/lessons/{id}.
func (h *TrainingHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "lesson id is required")
		return
	}

	var lesson model.Lesson
	if err := json.NewDecoder(r.Body).Decode(&lesson); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	lesson.ID = id

	var updated *model.Lesson
	err := h.submitter.Do(r.Context(), sessionID+":lesson-update:"+id, func(ctx context.Context) error {
		var err error
		updated, err = h.client.UpdateLesson(ctx, h.sessionToken(r, sessionID), lesson)
		return err
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Lesson updated")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteLesson handles DELETE /admin/api/training/lessons/{id}.
func (h *TrainingHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "lesson id is required")
		return
	}

	err := h.submitter.Do(r.Context(), sessionID+":lesson-delete:"+id, func(ctx context.Context) error {
		return h.client.DeleteLesson(ctx, h.sessionToken(r, sessionID), id)
	})
	if err != nil {
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.notifier.Success(sessionID, "Lesson deleted")
	w.WriteHeader(http.StatusNoContent)
}
