// Package middleware provides the HTTP middleware shared by the server's modules:
// request ids, request logging, CORS and tracing.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware. The first middleware added
// sees the request first.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type chain []func(http.Handler) http.Handler

// New creates an empty middleware System.
func New() System {
	return &chain{}
}

func (c *chain) Use(fn func(http.Handler) http.Handler) {
	if fn != nil {
		*c = append(*c, fn)
	}
}

func (c *chain) Apply(handler http.Handler) http.Handler {
	stack := *c
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}
	return handler
}

func (c *chain) Len() int {
	return len(*c)
}
