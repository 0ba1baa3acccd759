package api

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is used when the server did not supply a message.
const DefaultErrorMessage = "An error occurred"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrEmptyToken    = errors.New("server response did not include a token")
	ErrEmptyID       = errors.New("server response did not include a resume id")
)

// Kind classifies a failed request. It is derived from the HTTP status code
// only, never from message text.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNetwork
	KindAuth
	KindForbidden
	KindQuota
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindQuota:
		return "quota"
	}
	return "server"
}

// Error is the normalized failure shape returned by every Client method.
type Error struct {
	Kind Kind
	// Status is 0 when no response was received.
	Status int
	// Message is the server's "message" field, or DefaultErrorMessage.
	Message string
	// Data is the raw JSON error body, if the server sent one.
	Data []byte
	// Used is the server's analyses-used count on 429 responses, if present.
	Used      *int
	RequestID string
	Cause     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("api %s error (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets callers match on the package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrQuotaExceeded:
		return e.Kind == KindQuota
	}
	return false
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusTooManyRequests:
		return KindQuota
	}
	return KindServer
}

// AsError unwraps err into *Error when possible.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
