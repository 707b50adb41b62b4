package auth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fapmendoza/admin-gateway/internal/model"
)

func TestGate_EmptyToken(t *testing.T) {
	g := NewGate("", false)

	state, ident := g.Resolve("")
	if state != Unauthenticated {
		t.Errorf("state = %s, want unauthenticated", state)
	}
	if ident != nil {
		t.Errorf("identity = %+v, want nil", ident)
	}
}

func TestGate_ValidJSONRoundTrip(t *testing.T) {
	g := NewGate("", false)

	original := model.Identity{
		ID:    "admin-7",
		Email: "hr@fapmendoza.com",
		Name:  "HR Admin",
		Role:  "admin",
	}
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	state, ident := g.Resolve(string(raw))
	if state != Valid {
		t.Fatalf("state = %s, want valid", state)
	}
	if ident == nil || *ident != original {
		t.Errorf("parse(serialize(identity)) = %+v, want %+v", ident, original)
	}
}

func TestGate_JSONWithoutID(t *testing.T) {
	g := NewGate("", false)

	state, _ := g.Resolve(`{"email":"x@y.com"}`)
	if state != Invalid {
		t.Errorf("state = %s, want invalid for JSON without id", state)
	}
}

func TestGate_MalformedToken(t *testing.T) {
	g := NewGate("", false)

	for _, token := range []string{"not-json", "{broken", "42", `"quoted string"`, "[1,2,3]"} {
		state, ident := g.Resolve(token)
		if state != Invalid {
			t.Errorf("Resolve(%q) state = %s, want invalid", token, state)
		}
		if ident != nil {
			t.Errorf("Resolve(%q) identity = %+v, want nil", token, ident)
		}
	}
}

func TestGate_LegacyPlaceholder(t *testing.T) {
	g := NewGate("", true)

	state, ident := g.Resolve("not-json")
	if state != Valid {
		t.Fatalf("state = %s, want valid in legacy mode", state)
	}
	if ident == nil {
		t.Fatal("expected the placeholder identity")
	}
	if ident.ID != "admin123" || ident.Email != "support@fapmendoza.com" {
		t.Errorf("placeholder = %+v, want {admin123 support@fapmendoza.com}", ident)
	}
}

func TestGate_LegacyModeStillParsesValidJSON(t *testing.T) {
	g := NewGate("", true)

	state, ident := g.Resolve(`{"id":"real-admin"}`)
	if state != Valid || ident.ID != "real-admin" {
		t.Errorf("legacy mode mangled a valid token: state=%s ident=%+v", state, ident)
	}
}

func signTestJWT(t *testing.T, secret, subject string, claims map[string]any) string {
	t.Helper()

	mapClaims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestGate_JWTToken(t *testing.T) {
	g := NewGate("test-secret", false)

	token := signTestJWT(t, "test-secret", "admin-9", map[string]any{
		"email": "ops@fapmendoza.com",
		"role":  "admin",
	})

	state, ident := g.Resolve(token)
	if state != Valid {
		t.Fatalf("state = %s, want valid", state)
	}
	if ident.ID != "admin-9" || ident.Email != "ops@fapmendoza.com" || ident.Role != "admin" {
		t.Errorf("identity = %+v", ident)
	}
}

func TestGate_JWTWrongSecret(t *testing.T) {
	g := NewGate("right-secret", false)

	token := signTestJWT(t, "wrong-secret", "admin-9", nil)

	state, _ := g.Resolve(token)
	if state != Invalid {
		t.Errorf("state = %s, want invalid for wrong signature", state)
	}
}

func TestGate_JWTExpired(t *testing.T) {
	g := NewGate("test-secret", false)

	claims := jwt.MapClaims{
		"sub": "admin-9",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	state, _ := g.Resolve(token)
	if state != Invalid {
		t.Errorf("state = %s, want invalid for expired token", state)
	}
}

func TestGate_JWTDisabledWithoutSecret(t *testing.T) {
	g := NewGate("", false)

	token := signTestJWT(t, "some-secret", "admin-9", nil)

	state, _ := g.Resolve(token)
	if state != Invalid {
		t.Errorf("state = %s, want invalid when JWT path is disabled", state)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unauthenticated, "unauthenticated"},
		{Invalid, "invalid"},
		{Valid, "valid"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
