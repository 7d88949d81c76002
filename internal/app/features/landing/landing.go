// internal/app/features/landing/landing.go
//
// Package landing serves published landing pages: JSON for the course
// platform's front end and a server-rendered HTML page for direct visits.
package landing

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/stratacourse/internal/app/features/errors"
	"github.com/dalemusser/stratacourse/internal/app/system/authz"
	"github.com/dalemusser/stratacourse/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacourse/internal/app/system/landingresolve"
	"github.com/dalemusser/stratacourse/internal/app/system/sectionrender"
	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the public landing page endpoints.
type Handler struct {
	resolver *landingresolve.Resolver
	renderer *sectionrender.Renderer
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new landing Handler.
func NewHandler(resolver *landingresolve.Resolver, renderer *sectionrender.Renderer, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		renderer: renderer,
		errLog:   errLog,
		logger:   logger,
	}
}

// APIRoutes serves GET /{slug} as JSON. Mount under /api/landing-pages.
func APIRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{slug}", h.getPage)
	return r
}

// PageRoutes serves GET /{slug} as HTML. Mount under /p.
func PageRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{slug}", h.showPage)
	return r
}

func (h *Handler) cacheControl() string {
	return fmt.Sprintf("public, max-age=%d", int(h.resolver.Window().Seconds()))
}

// resolve looks the slug up under the store deadline.
func (h *Handler) resolve(r *http.Request, slug string) (models.LandingPage, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Store(), h.logger, "resolve landing page")
	defer cancel()
	return h.resolver.Resolve(ctx, slug)
}

// getPage returns the active page for slug. Missing and inactive pages get the
// same 404 body.
func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.resolve(r, slug)
	if errors.Is(err, landingresolve.ErrNotFound) {
		jsonutil.NotFound(w, r, landingresolve.ErrNotFound.Error())
		return
	}
	if err != nil {
		h.errLog.LogWithFields(r, "resolve landing page failed", err, zap.String("slug", slug))
		jsonutil.InternalError(w, r, "internal server error")
		return
	}

	w.Header().Set("Cache-Control", h.cacheControl())
	jsonutil.OK(w, r, page)
}

// showPage renders the page document. Admins get an edit link and a private
// response so the link never lands in a shared cache.
func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.resolve(r, slug)
	if errors.Is(err, landingresolve.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.errLog.LogWithFields(r, "resolve landing page failed", err, zap.String("slug", slug))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	editURL := ""
	cacheControl := h.cacheControl()
	if authz.IsAdmin(r) {
		editURL = "/admin/landing-pages/" + url.PathEscape(page.ID) + "/edit"
		cacheControl = "private, no-store"
	}

	blocks := h.renderer.Render(r.Context(), page.Sections)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	h.renderer.RenderPage(w, r, page, blocks, editURL)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderer.RenderNotFound(w, r)
}
