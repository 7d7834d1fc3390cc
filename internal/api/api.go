// Package api assembles the JSON API module: upload submission, session state,
// note download and the OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/pkg/middleware"
	"github.com/JaimeStill/scribe/pkg/module"
	"github.com/JaimeStill/scribe/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}

// NewSpec builds the OpenAPI document the API module serves at /openapi.json.
func NewSpec(cfg *config.Config, infra *infrastructure.Infrastructure) *openapi.Spec {
	runtime := NewRuntime(infra)
	return buildSpec(cfg, routeGroups(NewDomain(cfg, infra), cfg, runtime))
}
