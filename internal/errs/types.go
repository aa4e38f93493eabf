package errs

import (
	"github.com/pkg/errors"
)

// NewValidationError creates a VALIDATION error.
//
// fieldErrors may be nil when the problem is not tied to one field.
func NewValidationError(message string, fieldErrors []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "INVALID_INPUT",
		Message: message,
		Errors:  fieldErrors,
	}
}

// NewFieldError is shorthand for a validation error about a single field.
func NewFieldError(field, message string) *Error {
	return NewValidationError("Validation failed", []FieldError{{Field: field, Error: message}})
}

// NewConflictError creates a CONFLICT error.
//
// code is optional; nil defaults to "CONFLICT".
func NewConflictError(message string, code *string, cause error) *Error {
	formattedCode := MakeUpperCaseWithUnderscores(string(KindConflict))
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Kind:    KindConflict,
		Code:    formattedCode,
		Message: message,
		Err:     cause,
	}
}

// NewNotFoundError creates a NOT_FOUND error for a missing referenced row.
//
// code is optional; nil defaults to "NOT_FOUND".
func NewNotFoundError(message string, code *string, cause error) *Error {
	formattedCode := MakeUpperCaseWithUnderscores(string(KindNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Kind:    KindNotFound,
		Code:    formattedCode,
		Message: message,
		Err:     cause,
	}
}

// NewDataFault wraps a database failure.
//
// The cause gets a stack trace attached (pkg/errors) so that zerolog's
// stack marshaler can print where the fault surfaced.
func NewDataFault(operation string, cause error) *Error {
	return &Error{
		Kind:    KindDataFault,
		Code:    MakeUpperCaseWithUnderscores(string(KindDataFault)),
		Message: operation + " failed",
		Err:     errors.WithStack(cause),
	}
}
