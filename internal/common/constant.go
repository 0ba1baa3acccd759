// Package common contains shared constants, sentinel errors and small helpers
// used across the resumematch client packages.
package common

// HTTP header names used on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Session store keys. The values mirror the keys the web client kept in
// browser storage so a backend issuing both can reason about them the same way.
const (
	SessionTokenKey   = "token"
	SessionProfileKey = "userData"
	SessionSaltKey    = "session_salt"
)
