package common

import "errors"

var (
	// ErrInvalidToken is returned when a bearer token cannot be decoded.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned by client-side pre-flight checks when the
	// token's exp claim is in the past. It is advisory only.
	ErrTokenExpired = errors.New("token expired")

	ErrNotAuthenticated = errors.New("not authenticated")
)
