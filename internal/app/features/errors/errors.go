// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratacourse/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// Handler provides error responses for the router. API paths get a JSON
// body, everything else a small HTML page.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

type statusPage struct {
	Title   string
	Status  int
	Message string
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	if wantsJSON(r) {
		jsonutil.Error(w, r, status, strings.ToLower(http.StatusText(status)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "errors/status", statusPage{Title: title, Status: status, Message: message})
}

// Forbidden renders the 403 forbidden page.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusForbidden, "Access Denied", "Bạn không có quyền truy cập trang này.")
}

// NotFound renders the 404 not found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusNotFound, "Not Found", "Không tìm thấy trang.")
}

// MethodNotAllowed renders the 405 page.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", "Phương thức không được hỗ trợ.")
}

// InternalError renders the 500 internal server error page.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusInternalServerError, "Server Error", "Đã có lỗi xảy ra. Vui lòng thử lại sau.")
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
