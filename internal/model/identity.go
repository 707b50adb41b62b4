// Package model defines domain entities for the admin gateway.
package model

// Identity is the admin identity derived from a stored session token.
// Only ID is guaranteed to be present; the remaining fields depend on
// what the backend put into the token at login.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}
