package kvstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Store implementation.
// Used in tests and single-node development runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryWithClock creates a store with an injected clock for tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	m := NewMemory()
	m.now = now
	return m
}

func memKey(sessionID, key string) string {
	return sessionID + ":" + key
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[memKey(sessionID, key)]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, memKey(sessionID, key))
		m.mu.Unlock()
		return "", false, nil
	}

	return entry.value, true, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(sessionID, key)] = memoryEntry{value: value}
	return nil
}

// SetTTL implements Store.
func (m *Memory) SetTTL(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(sessionID, key)] = memoryEntry{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, memKey(sessionID, key))
	return nil
}

// DeleteSession implements Store.
func (m *Memory) DeleteSession(ctx context.Context, sessionID string) error {
	prefix := sessionID + ":"

	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

// Ping implements Store.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
