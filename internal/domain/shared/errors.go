package shared

import "strings"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientCredit  = NewDomainError("INSUFFICIENT_CREDIT", "Insufficient advance credit available")
)

// ValidationErrors collects input validation failures so that a caller gets
// every problem with a submission in one pass instead of one at a time.
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates an empty validation error collector
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]*DomainError, 0)}
}

// Add appends a validation failure
func (v *ValidationErrors) Add(code, message string) {
	v.Errors = append(v.Errors, NewDomainError(code, message))
}

// HasErrors returns true if any validation failure was recorded
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ErrOrNil returns the collector as an error if it holds any failure
func (v *ValidationErrors) ErrOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Messages returns the human-readable messages of all failures
func (v *ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// InvariantViolationError signals a broken internal invariant, i.e. an
// integration bug rather than bad user input. It must never be swallowed or
// clamped: masking it would hide double-allocation bugs elsewhere.
type InvariantViolationError struct {
	DomainError
}

// NewInvariantViolation creates an invariant violation error
func NewInvariantViolation(message string) *InvariantViolationError {
	return &InvariantViolationError{
		DomainError: DomainError{Code: "INVARIANT_VIOLATION", Message: message},
	}
}

// IsInvariantViolation reports whether err is an invariant violation
func IsInvariantViolation(err error) bool {
	_, ok := err.(*InvariantViolationError)
	return ok
}
