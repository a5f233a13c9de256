package auth

import "errors"

var (
	MalformedCredentialResponseErr = errors.New("malformed credential response")
	NotAJWTErr                     = errors.New("token is not a JWT")
)
