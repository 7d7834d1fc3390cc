package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/pkg/handlers"
	"github.com/JaimeStill/scribe/pkg/routes"
)

// FormField is the multipart field carrying the audio file.
const FormField = "file"

// Handler provides the JSON endpoints for the upload workflow.
type Handler struct {
	ctl           *Controller
	logger        *slog.Logger
	maxUploadSize int64
}

// SubmitResponse is the body returned by a successful submission.
type SubmitResponse struct {
	State   State         `json:"state"`
	Attempt string        `json:"attempt"`
	Result  *notes.Result `json:"result"`
	View    notes.View    `json:"view"`
}

// NewHandler creates a Handler for ctl with the given upload size limit.
func NewHandler(ctl *Controller, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		ctl:           ctl,
		logger:        logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit, OpenAPI: Spec.Submit},
			{Method: "GET", Pattern: "/state", Handler: h.State, OpenAPI: Spec.State},
		},
	}
}

// Submit reads a multipart file upload and runs one workflow attempt.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	file, err := ReadMultipart(w, r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.ctl.Submit(r.Context(), file)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	snap := h.ctl.Snapshot()
	handlers.RespondJSON(w, http.StatusOK, SubmitResponse{
		State:   snap.State,
		Attempt: snap.Attempt,
		Result:  result,
		View:    notes.Present(result),
	})
}

// State returns the current controller snapshot.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ctl.Snapshot())
}

// ReadMultipart extracts the audio file from a multipart request body bounded by maxSize.
func ReadMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) (File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return File{}, ErrFileTooLarge
		}
		return File{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	part, header, err := r.FormFile(FormField)
	if err != nil {
		return File{}, fmt.Errorf("%w: missing %q field", ErrInvalidFile, FormField)
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
