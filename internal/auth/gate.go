// Package auth implements the authentication gate guarding every admin page.
//
// The gate never verifies tokens against the backend; it only decides
// whether a stored credential yields a usable identity. Pages that need
// server-verified auth get it from the backend's own 401 responses, which
// the handlers intercept uniformly.
package auth

import (
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

// State classifies the outcome of resolving a stored credential.
type State int

const (
	// Unauthenticated: no token is present.
	Unauthenticated State = iota
	// Invalid: a token is present but cannot be interpreted.
	Invalid
	// Valid: the token yielded an identity.
	Valid
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Placeholder is the identity substituted for unparseable tokens when
// legacy mode is enabled. Kept bit-for-bit compatible with the console
// this gateway replaces.
var Placeholder = model.Identity{
	ID:    "admin123",
	Email: "support@fapmendoza.com",
}

// ErrNoIdentity is returned by Resolve when the state is not Valid.
var ErrNoIdentity = errors.New("auth: token did not resolve to an identity")

// Gate resolves stored tokens into identities.
type Gate struct {
	// jwtKey enables the JWT verification path when non-empty.
	jwtKey []byte
	// legacyPlaceholder substitutes Placeholder for Invalid tokens
	// instead of forcing re-login.
	legacyPlaceholder bool
}

// NewGate creates a Gate. jwtSecret may be empty to disable JWT parsing.
func NewGate(jwtSecret string, legacyPlaceholder bool) *Gate {
	var key []byte
	if jwtSecret != "" {
		key = []byte(jwtSecret)
	}
	return &Gate{jwtKey: key, legacyPlaceholder: legacyPlaceholder}
}

// LegacyPlaceholder reports whether legacy placeholder mode is on.
func (g *Gate) LegacyPlaceholder() bool {
	return g.legacyPlaceholder
}

// Resolve interprets a stored token.
//
// Resolution order:
//  1. Empty token: Unauthenticated.
//  2. JSON object with a non-empty "id": Valid, with exactly that record.
//  3. JWT signed with the configured secret carrying an id claim: Valid.
//  4. Anything else: Invalid (Placeholder identity in legacy mode).
func (g *Gate) Resolve(token string) (State, *model.Identity) {
	if token == "" {
		return Unauthenticated, nil
	}

	if ident, ok := parseJSONIdentity(token); ok {
		return Valid, ident
	}

	if len(g.jwtKey) > 0 {
		if ident, ok := g.parseJWTIdentity(token); ok {
			return Valid, ident
		}
	}

	if g.legacyPlaceholder {
		ident := Placeholder
		return Valid, &ident
	}

	return Invalid, nil
}

// parseJSONIdentity attempts the structured-record interpretation.
// The identity must be a JSON object with a non-empty identifier.
func parseJSONIdentity(token string) (*model.Identity, bool) {
	var ident model.Identity
	if err := json.Unmarshal([]byte(token), &ident); err != nil {
		return nil, false
	}
	if ident.ID == "" {
		return nil, false
	}
	return &ident, true
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// parseJWTIdentity verifies an HS256 token and maps its claims.
func (g *Gate) parseJWTIdentity(token string) (*model.Identity, bool) {
	claims := &identityClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}

	if claims.Subject == "" {
		return nil, false
	}

	return &model.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, true
}
