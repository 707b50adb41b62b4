package model

import "time"

// UploadResult is the per-file outcome record returned by the backend's
// CV batch processor. Field names match the backend payload exactly.
type UploadResult struct {
	File    string   `json:"file"`
	Message string   `json:"message"`
	Email   string   `json:"email,omitempty"`
	Logs    []string `json:"logs"`
}

// ResultSet is one submission's ordered outcome records.
// A new submission replaces the previous set wholesale; a failed
// submission leaves it untouched.
type ResultSet struct {
	BatchID   string         `json:"batch_id"`
	Results   []UploadResult `json:"results"`
	CreatedAt time.Time      `json:"created_at"`
}

// Notification severities.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notification is the single transient message shown to the admin.
// At most one exists at a time; a new one overwrites the previous.
type Notification struct {
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	ShownAt  time.Time `json:"shown_at"`
}
