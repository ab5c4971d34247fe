package auth

import "errors"

var (
	// ErrNoToken means no credential is stored locally.
	ErrNoToken = errors.New("auth: no token stored")
	// ErrInvalidToken means the backend did not accept the token or did not
	// issue a new one.
	ErrInvalidToken = errors.New("auth: token rejected")
	// ErrNotAuthenticated is returned by protected calls without a session.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrLoggedOut means a logout happened while a login or refresh was in
	// flight; its result was discarded.
	ErrLoggedOut = errors.New("auth: logged out during request")
)

// AuthError is returned by Manager operations. Message is safe to show to
// the user; Err is the underlying cause.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
