// Package jsonutil provides helper functions for JSON API responses.
//
// Use these helpers in API handlers to ensure consistent JSON responses
// with proper Content-Type headers and error formatting. Encoding goes
// through go-chi/render so the status travels on the request context.
package jsonutil

import (
	"net/http"

	"github.com/go-chi/render"
)

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, r, http.StatusOK, page)
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if data == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	render.Status(r, status)
	render.JSON(w, r, data)
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, data)
}

// Created writes a 201 Created JSON response.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response (no body).
func NoContent(w http.ResponseWriter, r *http.Request) {
	render.NoContent(w, r)
}

// Error writes an error response with the given status code.
// The response body is {"error": message}.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"error": message})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, message)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusNotFound, message)
}

// Conflict writes a 409 Conflict error response.
func Conflict(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusConflict, message)
}

// InternalError writes a 500 Internal Server Error response.
// Do not expose internal details to clients; log the actual error separately.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusInternalServerError, message)
}

// ValidationError writes a 400 Bad Request response with field-level errors.
//
// Usage:
//
//	jsonutil.ValidationError(w, r, map[string]string{
//	    "slug":     "slug must use lowercase letters, digits and hyphens",
//	    "sections": "section 2: missing \"type\"",
//	})
func ValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	JSON(w, r, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// Decode reads and decodes JSON from the request body into v.
// The rest of the body is drained.
//
// Usage:
//
//	var input pageRequest
//	if err := jsonutil.Decode(r, &input); err != nil {
//	    jsonutil.BadRequest(w, r, err.Error())
//	    return
//	}
func Decode(r *http.Request, v any) error {
	return render.DecodeJSON(r.Body, v)
}
