// Package token derives timing facts from opaque bearer tokens.
//
// None of the functions verify signatures; the backend is the authority on
// token validity. This package only answers "when does this credential
// lapse", and it never fails on malformed input: a token whose shape is not
// recognised simply has no known expiry.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// DecodeExpiry extracts the exp claim from a JWT without verifying it.
// The second return value is false when the token is absent, malformed,
// or carries no expiry claim. Callers must treat false as "do not schedule
// anything for this token", never as an error.
func DecodeExpiry(tokenString string) (time.Time, bool) {
	if tokenString == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TimeUntilExpiry returns the remaining lifetime of the token relative to
// now. A token without a decodable expiry yields false.
func TimeUntilExpiry(tokenString string, now time.Time) (time.Duration, bool) {
	exp, ok := DecodeExpiry(tokenString)
	if !ok {
		return 0, false
	}
	return exp.Sub(now), true
}

// IsExpired reports whether the token's remaining lifetime is zero or
// negative. An unknown expiry counts as not expired: absence of information
// is not evidence of expiry, and forced logouts are reserved for tokens we
// can actually read.
func IsExpired(tokenString string, now time.Time) bool {
	remaining, ok := TimeUntilExpiry(tokenString, now)
	return ok && remaining <= 0
}
