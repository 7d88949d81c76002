// Package apicors provides CORS middleware for JSON endpoints that do not
// rely on the editor's cookies.
//
// The public landing page API is read by the course platform's front end,
// which may live on another origin. Admin JSON routes are called with a
// Bearer API key, so credentials are never allowed here.
package apicors

import (
	"net/http"
	"strings"
)

// ReadOnlyMethods are the methods allowed on the public landing page API.
var ReadOnlyMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

// Middleware returns CORS middleware that allows any origin for the given
// methods. With no methods it allows the full admin API set.
//
// Usage in routes.go:
//
//	r.Route("/api/landing-pages", func(r chi.Router) {
//	    r.Use(apicors.Middleware(apicors.ReadOnlyMethods...))
//	    r.Mount("/", landing.APIRoutes(h))
//	})
func Middleware(methods ...string) func(http.Handler) http.Handler {
	allow := allowMethods(methods)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			writePreflightHeaders(w, allow)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareWithOrigins returns CORS middleware that only allows specific
// origins. Requests from other origins get no CORS headers and the browser
// blocks them.
func MiddlewareWithOrigins(allowedOrigins []string, methods ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimRight(o, "/")] = struct{}{}
	}
	allow := allowMethods(methods)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}
			writePreflightHeaders(w, allow)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowMethods(methods []string) string {
	if len(methods) == 0 {
		return "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	return strings.Join(methods, ", ")
}

func writePreflightHeaders(w http.ResponseWriter, allow string) {
	w.Header().Set("Access-Control-Allow-Methods", allow)
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
	w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours
}
