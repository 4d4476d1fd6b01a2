package hackorsnooze

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by Client wraps exactly one of these.
var (
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid response")
	ErrAuthentication  = errors.New("authentication error")
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
)

// APIError describes a failed API call.
type APIError struct {
	Kind    error
	Op      string // e.g. "login", "add story"
	Status  int    // 0 when no response was received
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("hackorsnooze: %s: %s", e.Op, e.Kind.Error())
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Kind }

// kindForStatus maps a non-2xx HTTP status to an error kind. 409 is what
// signup answers for a taken username.
func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		return ErrAuthentication
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrNetwork
	}
}

func networkError(op string, err error) error {
	return &APIError{Kind: ErrNetwork, Op: op, Message: err.Error()}
}

func invalidResponse(op, format string, args ...any) error {
	return &APIError{Kind: ErrInvalidResponse, Op: op, Message: fmt.Sprintf(format, args...)}
}
