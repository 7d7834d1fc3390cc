package middleware

import (
	"net/http"
	"slices"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var untraced = []string{"/healthz", "/readyz", "/metrics"}

// Trace wraps handlers with OpenTelemetry server instrumentation named after service.
// Probe and metrics endpoints are not traced.
func Trace(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			service,
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !slices.Contains(untraced, r.URL.Path)
			}),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}
