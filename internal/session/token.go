// ABOUTME: Reads the expiry claim of JWT session tokens without verifying them
// ABOUTME: Lets rehydration skip tokens that are already known to be stale

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the exp claim of token. ok is false when the token is
// not a JWT or carries no expiry. The signature is not checked; the server
// stays the authority on validity.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// tokenExpired reports whether token carries an expiry at or before now
func tokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}
