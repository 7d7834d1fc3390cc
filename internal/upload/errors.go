package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// Precondition and workflow errors.
var (
	ErrWorkflowFailed = errors.New("upload failed")
	ErrInProgress     = errors.New("upload already in progress")
	ErrInvalidFile    = errors.New("invalid file")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	// ErrUnsupportedType is also an ErrInvalidFile.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported media type", ErrInvalidFile)
)

// Step identifies a stage of the upload workflow.
type Step string

const (
	StepPresign  Step = "presign"
	StepTransfer Step = "transfer"
	StepInvoke   Step = "invoke"
)

// Failure is the single error shape returned for a failed attempt.
// It matches ErrWorkflowFailed and the underlying cause under errors.Is.
type Failure struct {
	Step Step
	// Target is the pre-signed address issued by step one, when one was issued.
	Target string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", ErrWorkflowFailed, f.Err)
}

func (f *Failure) Unwrap() []error {
	return []error{ErrWorkflowFailed, f.Err}
}

// Orphaned reports whether a target was issued but never received the file.
// No cleanup is attempted; the backend owns expiry of unused targets.
func (f *Failure) Orphaned() bool {
	return f.Step == StepTransfer && f.Target != ""
}

// MapHTTPStatus maps upload errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrUnsupportedType) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInProgress) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrWorkflowFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
