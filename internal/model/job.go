package model

import "time"

// JobOffer is a recruitment job offer as managed from the admin console.
// The backend owns the canonical record; the gateway passes these through.
type JobOffer struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Salary      string     `json:"salary,omitempty"`
	WorkMode    string     `json:"work_mode,omitempty"`
	ApplyToken  string     `json:"apply_token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Matching is a candidate-to-offer match score computed by the backend.
type Matching struct {
	CandidateEmail string  `json:"candidate_email"`
	JobID          string  `json:"job_id"`
	JobTitle       string  `json:"job_title,omitempty"`
	Score          float64 `json:"score"`
}

// Proposal is a pending outreach proposal awaiting an admin send.
type Proposal struct {
	ID             string     `json:"id"`
	CandidateEmail string     `json:"candidate_email"`
	JobID          string     `json:"job_id,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}
