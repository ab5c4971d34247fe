package credential

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySkew is how close to expiry a token may be and still count as usable.
const ExpirySkew = 30 * time.Second

// ErrMalformed is returned for tokens that are not a parseable JWT.
var ErrMalformed = errors.New("credential: malformed token")

// Expiry reads the exp claim without verifying the signature. The client never
// holds the signing key; the backend remains the authority via /api/validate.
func Expiry(token string) (time.Time, error) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, ErrMalformed
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	return claims.ExpiresAt.Time, nil
}

// Usable reports whether token parses and expires later than now+ExpirySkew.
func Usable(token string, now time.Time) bool {
	exp, err := Expiry(token)
	if err != nil {
		return false
	}
	return exp.After(now.Add(ExpirySkew))
}
