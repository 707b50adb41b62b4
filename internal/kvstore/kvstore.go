// Package kvstore provides the session-scoped key-value store backing the
// admin console. It replaces the browser's ambient localStorage with an
// explicit interface so the auth gate and handlers can be tested without a
// real storage backend.
package kvstore

import (
	"context"
	"time"
)

// Well-known keys. These mirror what the admin pages persist.
const (
	KeyAdminToken  = "adminToken"
	KeyColorMode   = "colorMode"
	KeySidebarOpen = "sidebarOpen"
	KeyLastResults = "lastResults"
)

// Store is a session-scoped string key-value store.
//
// Semantics follow browser storage: reading a missing key is not an error,
// it reports ok=false. Writes within a session share the session's
// lifetime unless SetTTL gives the key its own expiry.
type Store interface {
	// Get returns the value for key in the given session.
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)

	// Set writes the value for key in the given session.
	Set(ctx context.Context, sessionID, key, value string) error

	// SetTTL writes the value and expires it after ttl.
	SetTTL(ctx context.Context, sessionID, key, value string, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, sessionID, key string) error

	// DeleteSession removes every key belonging to the session.
	DeleteSession(ctx context.Context, sessionID string) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backing resources.
	Close() error
}
