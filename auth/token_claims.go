package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims are the display-relevant fields of a session token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenClaims extracts claims from a session token without verifying its
// signature. The token is opaque as far as authentication goes; this exists
// only so the console can show who is logged in and until when. Never use
// it for an auth decision.
func TokenClaims(token string) (*Claims, error) {
	var mapClaims jwt.MapClaims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, errors.Wrap(err, NotAJWTErr.Error())
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
