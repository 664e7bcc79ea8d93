package models

// User is the profile object returned by the backend's me endpoint.
// Backends disagree on field coverage, so anything beyond the identity
// fields rides along untyped.
type User struct {
	ID    string         `json:"id,omitempty"`
	Email string         `json:"email,omitempty"`
	Name  string         `json:"name,omitempty"`
	Extra map[string]any `json:"-"`
}
