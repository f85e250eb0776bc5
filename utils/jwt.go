package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims reads the claims of a backend-issued token without verifying
// its signature. The backend owns the signing key and remains the authority;
// the gateway only needs the expiry and the subject.
func TokenClaims(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of a token. ok is false for opaque tokens
// or tokens without an expiry.
func TokenExpiry(tokenString string) (exp time.Time, ok bool) {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	default:
		return time.Time{}, false
	}
}
