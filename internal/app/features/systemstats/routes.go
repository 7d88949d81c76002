// internal/app/features/systemstats/routes.go
package systemstats

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the stats routes. The caller applies the admin gate.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/stats", h.Serve)
	return r
}
