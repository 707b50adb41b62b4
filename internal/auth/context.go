package auth

import (
	"context"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for the resolved identity.
	identityContextKey contextKey = "identity"
	// sessionContextKey is the context key for the session id.
	sessionContextKey contextKey = "session_id"
)

// ContextWithIdentity adds the resolved identity to the context.
func ContextWithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if the auth gate has not resolved one.
func IdentityFromContext(ctx context.Context) *model.Identity {
	ident, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}

// ContextWithSession adds the session id to the context.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext retrieves the session id from the context.
// Returns empty string if not present.
func SessionFromContext(ctx context.Context) string {
	id, ok := ctx.Value(sessionContextKey).(string)
	if !ok {
		return ""
	}
	return id
}
