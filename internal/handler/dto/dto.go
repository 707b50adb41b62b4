// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/fapmendoza/admin-gateway/internal/model"
)

// ErrorResponse is the uniform error envelope for gateway API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// Redirect is set when the caller should navigate to the login
	// route (expired or cleared session).
	Redirect string `json:"redirect,omitempty"`
}

// CreateSessionRequest carries the backend-issued token at login.
type CreateSessionRequest struct {
	Token string `json:"token"`
}

// SessionResponse describes the resolved session.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Identity  *model.Identity `json:"identity"`
}

// UploadResponse is the CV batch submission outcome.
type UploadResponse struct {
	BatchID string               `json:"batch_id"`
	Results []model.UploadResult `json:"results"`
}

// ProgressResponse reports best-effort upload progress.
type ProgressResponse struct {
	State   string `json:"state"`
	Percent int    `json:"percent"`
}

// PrefsResponse carries the stored UI preferences.
type PrefsResponse struct {
	ColorMode   string `json:"colorMode"`
	SidebarOpen bool   `json:"sidebarOpen"`
}

// UpdatePrefsRequest updates UI preferences. Pointer fields distinguish
// "leave unchanged" from an explicit value.
type UpdatePrefsRequest struct {
	ColorMode   *string `json:"colorMode,omitempty"`
	SidebarOpen *bool   `json:"sidebarOpen,omitempty"`
}

// NotificationResponse wraps the current transient notification.
type NotificationResponse struct {
	Notification *model.Notification `json:"notification"`
}
