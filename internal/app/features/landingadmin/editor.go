// internal/app/features/landingadmin/editor.go
package landingadmin

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/stratacourse/internal/app/features/errors"
	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/landingeditor"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const basePath = "/admin/landing-pages"

// EditorHandler serves the HTML editor.
type EditorHandler struct {
	editor *landingeditor.Editor
	repo   landingpagestore.Repository
	pages  *errorsfeature.Handler
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewEditorHandler creates a new editor handler.
func NewEditorHandler(repo landingpagestore.Repository, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *EditorHandler {
	return &EditorHandler{
		editor: landingeditor.New(repo),
		repo:   repo,
		pages:  errorsfeature.NewHandler(),
		errLog: errLog,
		logger: logger,
	}
}

// EditorRoutes returns the editor routes. The caller applies the admin gate
// and CSRF protection.
func EditorRoutes(h *EditorHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listPages)
	r.Get("/new", h.newPage)
	r.Post("/", h.createPage)
	r.Get("/{id}/edit", h.editPage)
	r.Post("/{id}", h.updatePage)
	r.Post("/{id}/delete", h.deletePage)
	return r
}

type listVM struct {
	Title     string
	CSRFField template.HTML
	Pages     []models.LandingPage
	Deleted   bool
}

type editVM struct {
	Title     string
	CSRFField template.HTML
	Action    string
	Form      landingeditor.Form
	Success   bool
	Error     string
}

func (h *EditorHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, vm any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	templates.Render(w, r, name, vm)
}

func (h *EditorHandler) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.repo.List(r.Context())
	if err != nil {
		h.errLog.Log(r, "list landing pages failed", err)
		h.pages.InternalError(w, r)
		return
	}
	h.render(w, r, http.StatusOK, "landingadmin/list", listVM{
		Title:     "Landing pages",
		CSRFField: csrf.TemplateField(r),
		Pages:     pages,
		Deleted:   r.URL.Query().Get("deleted") == "1",
	})
}

func (h *EditorHandler) newPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "landingadmin/edit", editVM{
		Title:     "Tạo landing page",
		CSRFField: csrf.TemplateField(r),
		Action:    basePath,
		Form:      h.editor.NewForm(),
	})
}

func (h *EditorHandler) editPage(w http.ResponseWriter, r *http.Request) {
	form, err := h.editor.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, landingpagestore.ErrNotFound) {
		h.pages.NotFound(w, r)
		return
	}
	if err != nil {
		h.errLog.Log(r, "load landing page for edit failed", err)
		h.pages.InternalError(w, r)
		return
	}
	h.render(w, r, http.StatusOK, "landingadmin/edit", editVM{
		Title:     "Sửa: " + form.Title,
		CSRFField: csrf.TemplateField(r),
		Action:    basePath + "/" + url.PathEscape(form.ID),
		Form:      form,
		Success:   r.URL.Query().Get("success") == "1",
	})
}

func (h *EditorHandler) createPage(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

func (h *EditorHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "id"))
}

// formFromRequest reads the posted editor fields. An unchecked checkbox is
// simply absent from the form.
func formFromRequest(r *http.Request, id string) landingeditor.Form {
	return landingeditor.Form{
		ID:          id,
		Title:       r.PostFormValue("title"),
		Slug:        r.PostFormValue("slug"),
		Description: r.PostFormValue("description"),
		IsActive:    r.PostFormValue("is_active") != "",
		Sections:    r.PostFormValue("sections"),
		Format:      normalize.Format(r.PostFormValue("format")),
	}
}

func (h *EditorHandler) submit(w http.ResponseWriter, r *http.Request, id string) {
	// Room for the section text plus the other fields.
	r.Body = http.MaxBytesReader(w, r.Body, 2*landingeditor.MaxSectionsLength)
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := formFromRequest(r, id)

	page, err := h.editor.Submit(r.Context(), form)
	if err != nil {
		h.submitFailed(w, r, form, err)
		return
	}

	h.logger.Info("landing page saved from editor",
		zap.String("id", page.ID),
		zap.String("slug", page.Slug),
		zap.Bool("created", id == ""))
	http.Redirect(w, r, basePath+"/"+url.PathEscape(page.ID)+"/edit?success=1", http.StatusSeeOther)
}

// submitFailed re-renders the form with the operator's text and the reason.
func (h *EditorHandler) submitFailed(w http.ResponseWriter, r *http.Request, form landingeditor.Form, err error) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, landingpagestore.ErrStore):
		h.errLog.Log(r, "save landing page failed", err)
		status, msg = http.StatusInternalServerError, "Không lưu được trang. Vui lòng thử lại."
	case errors.Is(err, landingeditor.ErrValidation), errors.Is(err, landingpagestore.ErrInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, landingpagestore.ErrConflict):
		status, msg = http.StatusConflict, "Slug này đã được dùng cho trang khác."
	case errors.Is(err, landingpagestore.ErrNotFound):
		h.pages.NotFound(w, r)
		return
	default:
		h.errLog.Log(r, "save landing page failed", err)
		status, msg = http.StatusInternalServerError, "Không lưu được trang. Vui lòng thử lại."
	}

	title, action := "Tạo landing page", basePath
	if form.ID != "" {
		title, action = "Sửa: "+form.Title, basePath+"/"+url.PathEscape(form.ID)
	}
	h.render(w, r, status, "landingadmin/edit", editVM{
		Title:     title,
		CSRFField: csrf.TemplateField(r),
		Action:    action,
		Form:      form,
		Error:     msg,
	})
}

func (h *EditorHandler) deletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.repo.Delete(r.Context(), id)
	if errors.Is(err, landingpagestore.ErrNotFound) {
		h.pages.NotFound(w, r)
		return
	}
	if err != nil {
		h.errLog.Log(r, "delete landing page failed", err)
		h.pages.InternalError(w, r)
		return
	}
	h.logger.Info("landing page deleted from editor", zap.String("id", id))
	http.Redirect(w, r, basePath+"?deleted=1", http.StatusSeeOther)
}
