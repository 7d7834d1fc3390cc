package app

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/web"
)

// PageData is the model rendered by the index view.
type PageData struct {
	Accept  string
	Busy    bool
	State   upload.State
	File    *upload.FileInfo
	Attempt string
	View    notes.View
	Error   string
}

type handler struct {
	ctl           *upload.Controller
	ts            *web.TemplateSet
	logger        *slog.Logger
	maxUploadSize int64
}

func newHandler(ctl *upload.Controller, ts *web.TemplateSet, logger *slog.Logger, maxUploadSize int64) *handler {
	return &handler{
		ctl:           ctl,
		ts:            ts,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.page(""))
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	file, err := upload.ReadMultipart(w, r, h.maxUploadSize)
	if err == nil {
		_, err = h.ctl.Submit(r.Context(), file)
	}

	if err != nil {
		h.logger.Warn("upload rejected", "error", err)
		h.render(w, upload.MapHTTPStatus(err), h.page(cause(err)))
		return
	}

	h.render(w, http.StatusOK, h.page(""))
}

// page builds PageData from the current session. A non-empty failure replaces
// the session error.
func (h *handler) page(failure string) PageData {
	snap := h.ctl.Snapshot()

	data := PageData{
		Accept:  h.ctl.Filter().Accept(),
		Busy:    snap.State == upload.StateInProgress,
		State:   snap.State,
		File:    snap.File,
		Attempt: snap.Attempt,
		View:    notes.Present(snap.Result),
		Error:   failure,
	}
	if data.Error == "" && snap.State == upload.StateFailed {
		data.Error = strings.TrimPrefix(snap.Error, upload.ErrWorkflowFailed.Error()+": ")
	}
	return data
}

func (h *handler) render(w http.ResponseWriter, status int, data PageData) {
	if err := h.ts.Render(w, status, layout, indexView.Template, h.ts.Data(indexView, data)); err != nil {
		h.logger.Error("render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func cause(err error) string {
	var f *upload.Failure
	if errors.As(err, &f) {
		return f.Err.Error()
	}
	return err.Error()
}
