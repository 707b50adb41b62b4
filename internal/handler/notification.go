package handler

import (
	"net/http"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/handler/dto"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// NotificationHandler exposes the transient per-session notification.
type NotificationHandler struct {
	notifier *workflow.Notifier
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifier *workflow.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Current handles GET /admin/api/notification. A null notification means
// nothing is visible (none recorded, or the last one auto-dismissed).
func (h *NotificationHandler) Current(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.NotificationResponse{
		Notification: h.notifier.Current(sessionID),
	})
}

// Dismiss handles DELETE /admin/api/notification.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())
	h.notifier.Dismiss(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
