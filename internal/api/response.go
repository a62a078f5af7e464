// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wellspring/internal/logging"
	"github.com/tomtom215/wellspring/internal/models"
)

// ResponseWriter wraps http.ResponseWriter to write the standard envelope.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new ResponseWriter.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Success writes a 200 response carrying data.
func (rw *ResponseWriter) Success(data interface{}, message string) {
	rw.writeJSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes a failure envelope. err may be nil.
func (rw *ResponseWriter) Error(status int, message string, err error) {
	resp := models.APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	logging.Ctx(rw.r.Context()).Debug().
		Int("status", status).
		Str("path", rw.r.URL.Path).
		Str("message", message).
		Err(err).
		Msg("API error response")

	rw.writeJSON(status, resp)
}

// BadRequest writes a 400 response.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, message, nil)
}

// Unauthorized writes a 401 response.
func (rw *ResponseWriter) Unauthorized(message string) {
	if message == "" {
		message = "Authentication required"
	}
	rw.Error(http.StatusUnauthorized, message, nil)
}

// Forbidden writes a 403 response.
func (rw *ResponseWriter) Forbidden(message string) {
	if message == "" {
		message = "Access denied"
	}
	rw.Error(http.StatusForbidden, message, nil)
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(message string) {
	if message == "" {
		message = "Resource not found"
	}
	rw.Error(http.StatusNotFound, message, nil)
}

// MethodNotAllowed writes a 405 response.
func (rw *ResponseWriter) MethodNotAllowed() {
	rw.Error(http.StatusMethodNotAllowed, "Method not allowed", nil)
}

// TooManyRequests writes a 429 response.
func (rw *ResponseWriter) TooManyRequests() {
	rw.Error(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
}

// InternalError writes a 500 response and logs err at error level.
func (rw *ResponseWriter) InternalError(message string, err error) {
	if message == "" {
		message = "An internal error occurred"
	}
	logging.Ctx(rw.r.Context()).Error().
		Err(err).
		Str("path", rw.r.URL.Path).
		Msg(message)
	rw.Error(http.StatusInternalServerError, message, err)
}

func (rw *ResponseWriter) writeJSON(status int, resp models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.Header().Set("X-Response-Time-Ms", strconv.FormatInt(time.Since(rw.startTime).Milliseconds(), 10))
	rw.w.WriteHeader(status)

	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience wrapper around ResponseWriter.Success.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}, message string) {
	NewResponseWriter(w, r).Success(data, message)
}

// WriteError is a convenience wrapper around ResponseWriter.Error.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	NewResponseWriter(w, r).Error(status, message, err)
}
