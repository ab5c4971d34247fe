package domain

// Credentials is the request body for /api/login and /api/signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /api/login and /api/refresh.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Validation is the /api/validate response. ExpiresAt is a unix timestamp.
type Validation struct {
	Valid     bool  `json:"valid"`
	User      *User `json:"user,omitempty"`
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// OK reports whether the backend accepted the token and returned a profile.
func (v *Validation) OK() bool {
	return v != nil && v.Valid && v.User != nil
}
