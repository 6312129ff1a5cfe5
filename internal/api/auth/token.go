package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry returns the exp claim of a JWT bearer token without verifying
// its signature; only the rental API can verify it. ok is false when the
// token is not a JWT or carries no exp.
func tokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// sessionExpiry picks when a new session ends: the earliest of the API's
// stated expiry, the token's exp claim and now+ttl.
func sessionExpiry(now time.Time, ttl time.Duration, token string, stated *time.Time) time.Time {
	expires := now.Add(ttl)
	if stated != nil && !stated.IsZero() && stated.Before(expires) {
		expires = *stated
	}
	if exp, ok := tokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}
	return expires
}
