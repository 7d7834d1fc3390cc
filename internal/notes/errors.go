package notes

import "errors"

var (
	// ErrUnrecognizedResult indicates a processing response that matches no accepted shape.
	ErrUnrecognizedResult = errors.New("unrecognized result")
	// ErrUnknownContract indicates a contract name other than structured or document.
	ErrUnknownContract = errors.New("unknown result contract")
	// ErrDownloadFailed indicates a note location that could not be fetched.
	ErrDownloadFailed = errors.New("note download failed")
)
