// internal/app/features/landingadmin/api.go
package landingadmin

import (
	"encoding/json"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/stratacourse/internal/app/features/errors"
	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacourse/internal/app/system/landingeditor"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIHandler serves the admin JSON API for landing pages.
type APIHandler struct {
	repo   landingpagestore.Repository
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewAPIHandler creates a new admin API handler.
func NewAPIHandler(repo landingpagestore.Repository, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *APIHandler {
	return &APIHandler{repo: repo, errLog: errLog, logger: logger}
}

// APIRoutes returns the admin JSON routes. The caller applies the admin gate.
func APIRoutes(h *APIHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

// optional records whether a JSON field was present. An explicit null is
// present and leaves Value at its zero value.
type optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ptr returns nil when the field was absent.
func (o optional[T]) ptr() *T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// pageRequest is the create/update body. Absent fields are left alone on
// update; present fields overwrite, and null clears to the empty value.
// Sections, when present and not null, must be a JSON array.
type pageRequest struct {
	Slug        optional[string]          `json:"slug"`
	Title       optional[string]          `json:"title"`
	Description optional[string]          `json:"description"`
	IsActive    optional[bool]            `json:"isActive"`
	Sections    optional[json.RawMessage] `json:"sections"`
}

func (p pageRequest) sections() (*sections.List, error) {
	switch {
	case !p.Sections.Set:
		return nil, nil
	case p.Sections.Null:
		return &sections.List{}, nil
	}
	list, err := sections.Parse(p.Sections.Value)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (h *APIHandler) list(w http.ResponseWriter, r *http.Request) {
	pages, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, "list landing pages failed", err)
		return
	}
	if pages == nil {
		pages = []models.LandingPage{}
	}
	jsonutil.OK(w, r, pages)
}

func (h *APIHandler) get(w http.ResponseWriter, r *http.Request) {
	page, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get landing page failed", err)
		return
	}
	jsonutil.OK(w, r, page)
}

func (h *APIHandler) create(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, r, "invalid JSON body")
		return
	}
	list, err := req.sections()
	if err != nil {
		h.fail(w, r, "create landing page failed", err)
		return
	}

	in := landingpagestore.CreateInput{
		Slug:        req.Slug.Value,
		Title:       req.Title.Value,
		Description: req.Description.Value,
		IsActive:    req.IsActive.ptr(),
	}
	if list != nil {
		in.Sections = *list
	}

	page, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create landing page failed", err)
		return
	}
	h.logger.Info("landing page created", zap.String("id", page.ID), zap.String("slug", page.Slug))
	jsonutil.Created(w, r, page)
}

func (h *APIHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req pageRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, r, "invalid JSON body")
		return
	}
	list, err := req.sections()
	if err != nil {
		h.fail(w, r, "update landing page failed", err)
		return
	}

	page, err := h.repo.Update(r.Context(), id, landingpagestore.UpdateInput{
		Slug:        req.Slug.ptr(),
		Title:       req.Title.ptr(),
		Description: req.Description.ptr(),
		IsActive:    req.IsActive.ptr(),
		Sections:    list,
	})
	if err != nil {
		h.fail(w, r, "update landing page failed", err)
		return
	}
	h.logger.Info("landing page updated", zap.String("id", page.ID), zap.String("slug", page.Slug))
	jsonutil.OK(w, r, page)
}

func (h *APIHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete landing page failed", err)
		return
	}
	h.logger.Info("landing page deleted", zap.String("id", id))
	jsonutil.NoContent(w, r)
}

// fail maps repository and validation errors onto status codes. Only store
// failures are logged; their detail stays out of the response. A store
// failure may wrap a decode error for a corrupt stored blob, so it is
// matched first.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, landingpagestore.ErrStore):
		h.errLog.Log(r, msg, err)
		jsonutil.InternalError(w, r, "internal server error")
	case errors.Is(err, landingpagestore.ErrNotFound):
		jsonutil.NotFound(w, r, "landing page not found")
	case errors.Is(err, landingpagestore.ErrConflict):
		jsonutil.Conflict(w, r, err.Error())
	case errors.Is(err, sections.ErrMalformed):
		jsonutil.ValidationError(w, r, map[string]string{"sections": err.Error()})
	case errors.Is(err, landingpagestore.ErrInvalid), errors.Is(err, landingeditor.ErrValidation):
		jsonutil.BadRequest(w, r, err.Error())
	default:
		h.errLog.Log(r, msg, err)
		jsonutil.InternalError(w, r, "internal server error")
	}
}
