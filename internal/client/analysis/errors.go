package analysis

import "errors"

var (
	// ErrInFlight is returned by Submit while another submission is running.
	ErrInFlight = errors.New("analysis already in progress")
	// ErrStale marks an outcome that was discarded because the session
	// token changed while the request was in flight.
	ErrStale  = errors.New("session changed during analysis")
	ErrClosed = errors.New("analysis screen closed")

	ErrNoResume         = errors.New("no resume uploaded")
	ErrNoJobDescription = errors.New("job description is empty")
	ErrQuotaExhausted   = errors.New("analysis quota exhausted")
)
