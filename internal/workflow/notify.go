package workflow

import (
	"sync"
	"time"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

// DefaultNotificationTTL is how long a notification stays visible before
// auto-dismissing.
const DefaultNotificationTTL = 4 * time.Second

// Notifier holds the single current notification per session.
// A new notification overwrites the previous one; reads past the TTL
// see nothing.
type Notifier struct {
	mu      sync.Mutex
	current map[string]model.Notification
	ttl     time.Duration
	now     func() time.Time
}

// NewNotifier creates a Notifier with the default auto-dismiss interval.
func NewNotifier() *Notifier {
	return &Notifier{
		current: make(map[string]model.Notification),
		ttl:     DefaultNotificationTTL,
		now:     time.Now,
	}
}

// NewNotifierWithClock creates a Notifier with an injected clock for tests.
func NewNotifierWithClock(ttl time.Duration, now func() time.Time) *Notifier {
	n := NewNotifier()
	n.ttl = ttl
	n.now = now
	return n
}

// Success records a success notification for the session.
func (n *Notifier) Success(sessionID, message string) {
	n.push(sessionID, model.SeveritySuccess, message)
}

// Error records an error notification for the session.
func (n *Notifier) Error(sessionID, message string) {
	n.push(sessionID, model.SeverityError, message)
}

func (n *Notifier) push(sessionID, severity, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current[sessionID] = model.Notification{
		Severity: severity,
		Message:  message,
		ShownAt:  n.now(),
	}
}

// Current returns the visible notification for the session, or nil if
// none exists or the last one has auto-dismissed.
func (n *Notifier) Current(sessionID string) *model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	note, ok := n.current[sessionID]
	if !ok {
		return nil
	}

	if n.now().Sub(note.ShownAt) >= n.ttl {
		delete(n.current, sessionID)
		return nil
	}

	return &note
}

// Dismiss removes the session's notification immediately.
func (n *Notifier) Dismiss(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.current, sessionID)
}
