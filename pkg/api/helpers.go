// Package api provides standardized helper functions and shapes for HTTP API
// responses.
package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// FieldError describes a single request-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 body for request-shape failures.
type ValidationErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Success sends a successful HTTP response with optional JSON data.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// NoContent sends an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends an error response with a consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

// ValidationError sends a 422 response carrying per-field failures.
func ValidationError(w http.ResponseWriter, errs []FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(ValidationErrorResponse{
		Code:    "REQUEST_VALIDATION_ERROR",
		Message: "Request validation failed",
		Errors:  errs,
	})
}
