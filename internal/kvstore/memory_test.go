package kvstore

import (
	"context"
	"testing"
	"time"
)

func TestMemory_GetMissingKey(t *testing.T) {
	m := NewMemory()

	val, ok, err := m.Get(context.Background(), "s1", KeyAdminToken)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
	if val != "" {
		t.Errorf("expected empty value, got %q", val)
	}
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "s1", KeyColorMode, "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok, err := m.Get(ctx, "s1", KeyColorMode)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok || val != "dark" {
		t.Errorf("got (%q, %v), want (dark, true)", val, ok)
	}
}

func TestMemory_SessionIsolation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "s1", KeyAdminToken, "token-a")
	m.Set(ctx, "s2", KeyAdminToken, "token-b")

	val, _, _ := m.Get(ctx, "s1", KeyAdminToken)
	if val != "token-a" {
		t.Errorf("session s1 got %q, want token-a", val)
	}

	val, _, _ = m.Get(ctx, "s2", KeyAdminToken)
	if val != "token-b" {
		t.Errorf("session s2 got %q, want token-b", val)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "s1", KeyAdminToken, "tok")
	if err := m.Delete(ctx, "s1", KeyAdminToken); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, ok, _ := m.Get(ctx, "s1", KeyAdminToken)
	if ok {
		t.Error("expected key to be gone after delete")
	}

	// Deleting again must not error.
	if err := m.Delete(ctx, "s1", KeyAdminToken); err != nil {
		t.Errorf("deleting missing key errored: %v", err)
	}
}

func TestMemory_DeleteSession(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "s1", KeyAdminToken, "tok")
	m.Set(ctx, "s1", KeyColorMode, "dark")
	m.Set(ctx, "s2", KeyAdminToken, "other")

	if err := m.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("delete session failed: %v", err)
	}

	if _, ok, _ := m.Get(ctx, "s1", KeyAdminToken); ok {
		t.Error("s1 adminToken survived session delete")
	}
	if _, ok, _ := m.Get(ctx, "s1", KeyColorMode); ok {
		t.Error("s1 colorMode survived session delete")
	}
	if _, ok, _ := m.Get(ctx, "s2", KeyAdminToken); !ok {
		t.Error("s2 adminToken was removed by s1 session delete")
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(func() time.Time { return current })
	ctx := context.Background()

	if err := m.SetTTL(ctx, "s1", KeyLastResults, "[]", 60*time.Second); err != nil {
		t.Fatalf("set with ttl failed: %v", err)
	}

	if _, ok, _ := m.Get(ctx, "s1", KeyLastResults); !ok {
		t.Fatal("expected value before expiry")
	}

	current = current.Add(59 * time.Second)
	if _, ok, _ := m.Get(ctx, "s1", KeyLastResults); !ok {
		t.Error("value expired too early")
	}

	current = current.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "s1", KeyLastResults); ok {
		t.Error("value survived past its TTL")
	}
}
