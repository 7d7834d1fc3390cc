package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/handlers"
	"github.com/JaimeStill/scribe/pkg/openapi"
	"github.com/JaimeStill/scribe/pkg/routes"
)

// ErrNoNote indicates the session has no note location to download.
var ErrNoNote = errors.New("no note available")

var noteOperation = &openapi.Operation{
	Summary:     "Download the current note",
	Description: "Fetches the note document of the latest completed attempt.",
	Tags:        []string{"Uploads"},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseBinary("Note document"),
		404: openapi.ResponseRef("NotFound"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

// noteHandler proxies the current result's note document so browsers can fetch it
// from the same origin.
type noteHandler struct {
	ctl    *upload.Controller
	client *http.Client
	logger *slog.Logger
}

func newNoteHandler(ctl *upload.Controller, client *http.Client, logger *slog.Logger) *noteHandler {
	return &noteHandler{
		ctl:    ctl,
		client: client,
		logger: logger.With("handler", "notes"),
	}
}

func (h *noteHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/note", Handler: h.download, OpenAPI: noteOperation},
		},
	}
}

func (h *noteHandler) download(w http.ResponseWriter, r *http.Request) {
	location := h.ctl.Snapshot().Result.Location()
	if location == "" {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNoNote)
		return
	}

	var buf bytes.Buffer
	info, err := notes.Download(r.Context(), h.client, location, &buf)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if info.PageCount != nil {
		w.Header().Set("X-Page-Count", strconv.Itoa(*info.PageCount))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fileName(location)),
	)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func fileName(location string) string {
	u, err := url.Parse(location)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "note"
	}
	return path.Base(u.Path)
}
