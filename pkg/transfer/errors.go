package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrTransferFailed wraps every failed upload to a pre-signed target.
	ErrTransferFailed = errors.New("transfer failed")
	// ErrEmptyTarget indicates no upload target was provided.
	ErrEmptyTarget = errors.New("transfer target must not be empty")
	// ErrInvalidTarget indicates the target is not an absolute http(s) URL.
	ErrInvalidTarget = errors.New("transfer target must be an absolute http(s) URL")
)

// StatusError reports a target that answered with a non-success status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%v: HTTP %d", ErrTransferFailed, e.Status)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrTransferFailed
}
