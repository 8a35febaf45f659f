package httpx

import "net/http"

// Middleware is the standard net/http middleware shape.
type Middleware func(http.Handler) http.Handler

// Chain wraps a handler with the given middlewares. The first middleware in
// the list is the outermost, so Chain(h, a, b) serves a(b(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
