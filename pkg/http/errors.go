package http

import (
	"net/http"
)

// Error codes carried in ErrorResponse.Error
const (
	CodeBadRequest        = "bad_request"
	CodeInvalidParameter  = "invalid_parameter"
	CodeNotFound          = "not_found"
	CodeRateLimited       = "rate_limit_exceeded"
	CodeSourceUnavailable = "source_unavailable"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // query or body field that failed validation
}

// WriteError writes an ErrorResponse with the given status and code
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: code, Message: message})
}

// WriteInvalidParameter reports a 400 naming the offending field
func WriteInvalidParameter(w http.ResponseWriter, field, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidParameter,
		Message: message,
		Field:   field,
	})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

func WriteServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeSourceUnavailable, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, message)
}
