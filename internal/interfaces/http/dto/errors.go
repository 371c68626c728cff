package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeConflict:   http.StatusConflict,

	// Lookups
	ErrCodeNotFound:      http.StatusNotFound,
	"DOCUMENT_NOT_FOUND": http.StatusNotFound,
	"CREDIT_NOT_FOUND":   http.StatusNotFound,

	// Uniqueness and replay guards
	"DUPLICATE_DOCUMENT_NUMBER": http.StatusConflict,
	"DUPLICATE_CREDIT_NUMBER":   http.StatusConflict,
	"DUPLICATE_REQUEST":         http.StatusConflict,
	"ALREADY_EXISTS":            http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,

	// Business state
	"ALREADY_SETTLED":     http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"INSUFFICIENT_CREDIT": http.StatusUnprocessableEntity,

	// Broken internal invariants are server bugs, not client errors
	"INVARIANT_VIOLATION": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// INVALID_* codes are input validation failures and map to 400; anything
// unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
