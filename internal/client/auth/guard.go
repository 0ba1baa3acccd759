package auth

// Action is what a caller should do with a request for a protected target.
type Action int

const (
	ActionWait Action = iota
	ActionAllow
	ActionRedirect
)

// LoginTarget is where anonymous users are sent.
const LoginTarget = "login"

// Decision is the route guard's verdict. For ActionRedirect, Next holds the
// originally requested target so it can be resumed after login.
type Decision struct {
	Action   Action
	Redirect string
	Next     string
}

// StateReader is the slice of Context the guard depends on.
type StateReader interface {
	State() State
}

// Guard decides whether target may be shown.
func Guard(ac StateReader, target string) Decision {
	switch ac.State() {
	case StateAuthenticated:
		return Decision{Action: ActionAllow}
	case StateAnonymous:
		return Decision{Action: ActionRedirect, Redirect: LoginTarget, Next: target}
	}
	return Decision{Action: ActionWait}
}
