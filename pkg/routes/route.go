package routes

import (
	"net/http"

	"github.com/JaimeStill/scribe/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. An empty Method matches any.
// OpenAPI, when set, documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}
