package api

import "fmt"

// UnauthorizedPolicy decides what the client does on a 401 response. It is
// configured once; individual calls never override it.
type UnauthorizedPolicy string

const (
	// PolicySurface returns the normalized 401 and leaves the session alone;
	// the calling screen decides how to recover.
	PolicySurface UnauthorizedPolicy = "surface"
	// PolicyClearSession additionally clears the stored session.
	PolicyClearSession UnauthorizedPolicy = "clear"
)

func ParsePolicy(s string) (UnauthorizedPolicy, error) {
	switch UnauthorizedPolicy(s) {
	case PolicySurface, "":
		return PolicySurface, nil
	case PolicyClearSession:
		return PolicyClearSession, nil
	}
	return "", fmt.Errorf("unknown unauthorized policy %q (want %q or %q)", s, PolicySurface, PolicyClearSession)
}
