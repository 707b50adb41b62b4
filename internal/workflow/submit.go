// Package workflow implements the shared submit lifecycle used by every
// admin form: single-file upload, batch upload, record creation, bulk
// mailing and CRUD edits all run through the same state machine.
package workflow

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmitInFlight is returned when a submit is attempted while a
// previous one for the same key has not resolved yet.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// SubmitState is the lifecycle state of one keyed submit action.
type SubmitState int

const (
	// Idle: no submission in progress; a new one may start.
	Idle SubmitState = iota
	// Submitting: exactly one request is in flight.
	Submitting
)

// String returns the state name.
func (s SubmitState) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Submitter serializes submit actions per key. A key identifies one
// logical form for one session (e.g. "sess-abc:cv-upload"). Rapid
// double-submits are rejected rather than queued; there is no retry and
// no deduplication, the backend stays the source of truth for duplicates.
type Submitter struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

// NewSubmitter creates an empty Submitter.
func NewSubmitter() *Submitter {
	return &Submitter{
		inFlight: make(map[string]bool),
	}
}

// State reports the current state for key.
func (s *Submitter) State(key string) SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return Submitting
	}
	return Idle
}

// Do runs fn at most once concurrently per key. While fn runs the key is
// Submitting; on return it is Idle again regardless of outcome, so
// resubmitting after a failure simply repeats the request.
func (s *Submitter) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.inFlight[key] {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.inFlight[key] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	return fn(ctx)
}
