package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnexpectedStatus indicates the backend answered with a non-success status.
	ErrUnexpectedStatus = errors.New("backend: unexpected status")
	// ErrBadResponse indicates a success response whose body could not be used.
	ErrBadResponse = errors.New("backend: malformed response")
)

// ResponseError describes a non-success backend response.
// Message is the backend's error text when it sent one.
type ResponseError struct {
	Operation string
	Status    int
	Message   string
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s: HTTP %d %s", e.Operation, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	return msg
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedStatus
}
