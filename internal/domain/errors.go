package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Form engine errors
	CodeSchemaNotFound   ErrorCode = "SCHEMA_NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeStorageFailure   ErrorCode = "STORAGE_FAILURE"
	CodeUnknownInputType ErrorCode = "UNKNOWN_INPUT_TYPE"

	// Request validation errors
	CodeValidation    ErrorCode = "REQUEST_VALIDATION"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

// NewSchemaNotFoundError is returned when a schema sheet is missing or the
// backing workbook is unreadable. Fatal to the render session.
func NewSchemaNotFoundError(schemaID string, cause error) *DomainError {
	return NewError(CodeSchemaNotFound, fmt.Sprintf("Schema not found: %s", schemaID), cause)
}

// NewValidationFailedError carries the labels of every required-and-visible
// question left empty at submit time. Recoverable; the session's answers are
// retained for resubmission.
func NewValidationFailedError(labels []string) *DomainError {
	err := NewError(CodeValidationFailed, "Required fields are missing", nil)
	err.Context = map[string]interface{}{"missing_fields": labels}
	return err
}

// NewStorageFailureError wraps an insert failure from the record store. The
// root cause message is surfaced verbatim for diagnosis.
func NewStorageFailureError(cause error) *DomainError {
	return NewError(CodeStorageFailure, fmt.Sprintf("Failed to store submission: %v", cause), cause)
}

// ValidationError represents a single request-level field error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of request-level field errors.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "no validation errors"
	}
	return fmt.Sprintf("%d validation error(s), first: %s: %s", len(v), v[0].Field, v[0].Message)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("invalid format: %s", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("value %d out of range [%d, %d]", value, min, max)}
}
