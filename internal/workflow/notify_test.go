package workflow

import (
	"testing"
	"time"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

func TestNotifier_SuccessAndError(t *testing.T) {
	n := NewNotifier()

	n.Success("s1", "Upload complete")
	note := n.Current("s1")
	if note == nil {
		t.Fatal("expected a notification")
	}
	if note.Severity != model.SeveritySuccess {
		t.Errorf("severity = %s, want success", note.Severity)
	}
	if note.Message != "Upload complete" {
		t.Errorf("message = %q", note.Message)
	}

	n.Error("s1", "Upload failed")
	note = n.Current("s1")
	if note == nil {
		t.Fatal("expected a notification after overwrite")
	}
	if note.Severity != model.SeverityError {
		t.Error("new notification did not overwrite the previous one")
	}
}

func TestNotifier_AtMostOneVisible(t *testing.T) {
	n := NewNotifier()

	n.Success("s1", "first")
	n.Success("s1", "second")

	note := n.Current("s1")
	if note == nil || note.Message != "second" {
		t.Errorf("expected only the latest notification, got %+v", note)
	}
}

func TestNotifier_AutoDismiss(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	n := NewNotifierWithClock(4*time.Second, func() time.Time { return current })

	n.Success("s1", "hello")

	current = current.Add(3 * time.Second)
	if n.Current("s1") == nil {
		t.Error("notification dismissed too early")
	}

	current = current.Add(2 * time.Second)
	if n.Current("s1") != nil {
		t.Error("notification still visible past auto-dismiss interval")
	}
}

func TestNotifier_ManualDismiss(t *testing.T) {
	n := NewNotifier()

	n.Error("s1", "oops")
	n.Dismiss("s1")

	if n.Current("s1") != nil {
		t.Error("notification still visible after dismiss")
	}
}

func TestNotifier_SessionIsolation(t *testing.T) {
	n := NewNotifier()

	n.Success("s1", "mine")
	if n.Current("s2") != nil {
		t.Error("notification leaked across sessions")
	}
}
