package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned to clients as a coded JSON message with an action suggestion
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err); statusFor picks the HTTP status
//  3. Error is mapped via core.MapError to get the user-facing message
//  4. Technical error + context is logged for correlation

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	"github.com/JonMunkholm/matrixdiff/internal/logging"
	"github.com/JonMunkholm/matrixdiff/internal/workbook"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errBadRequest  = errors.New("invalid request body")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrMatrixNotFound),
		errors.Is(err, core.ErrDictionaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNoHierarchy), errors.Is(err, core.ErrStaleHierarchy):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnrecognizedCandidate), errors.Is(err, core.ErrNoMatrix):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNoWorkbook),
		errors.Is(err, workbook.ErrInvalidWorkbook),
		errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrEmptyFile),
		errors.Is(err, errNoFile),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status statusFor chooses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondStatus(w, r, statusFor(err), err)
}

// respondStatus logs the technical error and writes the user-facing message.
func respondStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
