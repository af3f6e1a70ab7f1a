package model

// Identity is the verified claim set attached to an authenticated request.
// It is populated by the auth middleware from a verified bearer token and is
// read-only downstream.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
