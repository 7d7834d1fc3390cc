// Package app serves the server-rendered upload page.
package app

import (
	"html/template"
	"net/http"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/formatting"
	"github.com/JaimeStill/scribe/pkg/middleware"
	"github.com/JaimeStill/scribe/pkg/module"
	"github.com/JaimeStill/scribe/pkg/web"
	webapp "github.com/JaimeStill/scribe/web/app"
)

const layout = "app"

var (
	indexView    = web.ViewDef{Route: "/{$}", Template: "index.html", Title: "Upload"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "Not Found"}
)

var funcs = template.FuncMap{
	"formatBytes": func(n int) string {
		return formatting.FormatBytes(int64(n), 1)
	},
}

// NewModule creates the app module mounted at cfg.API.AppPath. It shares ctl with
// the API module so both surfaces observe the same session.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure, ctl *upload.Controller) (*module.Module, error) {
	basePath := cfg.API.AppPath

	ts, err := web.NewTemplateSet(
		webapp.FS,
		"layouts/*.html",
		"views",
		basePath,
		funcs,
		[]web.ViewDef{indexView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	logger := infra.Logger.With("module", "app")
	h := newHandler(ctl, ts, logger, cfg.API.MaxUploadSizeBytes())

	router := web.NewRouter()
	router.HandleFunc("GET "+indexView.Route, h.index)
	router.HandleFunc("POST /upload", h.upload)
	router.Handle("GET /upload", http.RedirectHandler(basePath+"/", http.StatusSeeOther))
	router.Handle("GET /static/", web.DistServer(webapp.FS, "static", "/static/"))
	router.SetFallback(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	m := module.New(basePath, router)
	m.Use(middleware.Logger(logger))

	return m, nil
}
