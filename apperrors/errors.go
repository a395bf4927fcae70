package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an engine failure so the HTTP layer can pick a status
// without inspecting message text.
type Code string

const (
	CodeValidation        Code = "validation"
	CodeNotFound          Code = "not_found"
	CodeForbidden         Code = "forbidden"
	CodeInvalidTransition Code = "invalid_transition"
	CodeNotEditable       Code = "not_editable"
	CodeStorage           Code = "storage"
)

// Reason narrows a validation failure to a single named cause.
type Reason string

const (
	ReasonEmptyIntervalSet     Reason = "empty_interval_set"
	ReasonInvalidInterval      Reason = "invalid_interval"
	ReasonIncompleteCoverage   Reason = "incomplete_coverage"
	ReasonOverlappingIntervals Reason = "overlapping_intervals"
	ReasonCoverageGap          Reason = "coverage_gap"
	ReasonInvalidAttribute     Reason = "invalid_attribute"
)

// Error is the typed failure surfaced to callers of the content engine.
type Error struct {
	Code    Code   `json:"code"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	wrapped error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error carrying one of the named reasons.
func Validation(reason Reason, message string) *Error {
	return &Error{Code: CodeValidation, Reason: reason, Message: message}
}

// ValidationField builds a validation error pointing at a specific field.
func ValidationField(reason Reason, field, message string) *Error {
	return &Error{Code: CodeValidation, Reason: reason, Message: message, Field: field}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// InvalidTransition names the offending current state in the message so the
// caller can render a useful rejection.
func InvalidTransition(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NotEditable(message string) *Error {
	return &Error{Code: CodeNotEditable, Message: message}
}

// Storage wraps an underlying store failure that has no cleaner mapping.
func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage operation failed", wrapped: err}
}

// CodeOf extracts the taxonomy code from an error chain; unknown errors are
// reported as storage failures.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorage
}

// ReasonOf extracts the validation reason from an error chain, if any.
func ReasonOf(err error) Reason {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
