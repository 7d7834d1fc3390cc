package api

import (
	"net/http"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/openapi"
	"github.com/JaimeStill/scribe/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := routeGroups(domain, cfg, runtime)
	routes.Register(mux, groups...)

	data, err := openapi.MarshalJSON(buildSpec(cfg, groups))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
	return nil
}

func routeGroups(domain *Domain, cfg *config.Config, runtime *Runtime) []routes.Group {
	notes := newNoteHandler(domain.Uploads, runtime.HTTP, runtime.Logger)
	return []routes.Group{
		domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		notes.routes(),
	}
}

func buildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(upload.Spec.Schemas)
	routes.Describe(spec, "", groups...)
	return spec
}
