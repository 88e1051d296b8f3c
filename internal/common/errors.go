package common

import "errors"

var (
	// ErrInvalidToken means a bearer token could not be decoded.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired means the stored bearer token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrValidation is returned for client-side input checks.
	ErrValidation = errors.New("validation error")
)
