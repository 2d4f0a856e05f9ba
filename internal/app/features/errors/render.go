// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/system/formutil"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Body is the JSON error envelope.
type Body struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the JSON error envelope.
func WriteError(w http.ResponseWriter, status int, msg, field string) {
	WriteJSON(w, status, Body{Error: msg, Field: field})
}

// ErrorLogger maps domain errors to HTTP responses and logs the ones the
// client cannot fix.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger. A nil logger discards.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, sequence.ErrValidation):
		return http.StatusBadRequest
	case stderrors.Is(err, sequence.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, sequence.ErrConflict):
		return http.StatusConflict
	case stderrors.Is(err, formutil.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// Render writes the response for an error returned by op.
//
//	ValidationError -> 400 {"error":"...","field":"..."}
//	ErrNotFound     -> 404
//	ErrConflict     -> 409
//	ErrTooLarge     -> 413
//	anything else   -> 500, logged
func (e *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch status := Status(err); status {
	case http.StatusBadRequest:
		ve, _ := sequence.AsValidation(err)
		WriteError(w, status, ve.Error(), ve.Field)
	case http.StatusNotFound:
		WriteError(w, status, "not found", "")
	case http.StatusRequestEntityTooLarge:
		WriteError(w, status, "request body too large", "")
	case http.StatusConflict:
		e.log.Info(op+": conflict",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		WriteError(w, status, "the resource was modified concurrently; retry the request", "")
	default:
		e.LogServerError(w, r, op+" failed", err)
	}
}

// LogServerError logs err with request context and writes a generic 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())))
	WriteError(w, http.StatusInternalServerError, "internal server error", "")
}
