package domain

import "github.com/google/uuid"

// User is an Analytiq account profile as returned by /api/validate and /api/signup.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// Merge returns a copy of u with every non-zero field of patch applied.
// A nil receiver is treated as an empty profile.
func (u *User) Merge(patch User) *User {
	var out User
	if u != nil {
		out = *u
	}
	if patch.ID != uuid.Nil {
		out.ID = patch.ID
	}
	if patch.Email != "" {
		out.Email = patch.Email
	}
	if patch.CreatedAt != "" {
		out.CreatedAt = patch.CreatedAt
	}
	return &out
}

// Label returns the best human-readable identifier for the user.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	if u.ID != uuid.Nil {
		return u.ID.String()[:8]
	}
	return ""
}
