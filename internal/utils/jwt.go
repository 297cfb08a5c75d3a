package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseBearerToken extracts the token part from an "Authorization: Bearer ..."
// header value.
//
// Returns:
//
//	string - the raw token
//	error  - non-nil if the header is empty or not in "<scheme> <token>" form
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// TokenExpired reports whether the JWT token string carries an exp claim in
// the past. The signature is NOT verified: the client only uses this to
// decide whether a persisted session is worth restoring; the server remains
// the authority on token validity.
//
// A token that cannot be parsed is treated as expired. A token without an
// exp claim is treated as still valid.
func TokenExpired(tokenString string, now time.Time) bool {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return true
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}

	return exp.Before(now)
}
