// Package errs defines the error taxonomy of the data-access layer.
//
// Callers must be able to tell apart four outcomes that a naive
// "log and return nothing" policy would collapse:
//
//   - VALIDATION: malformed input rejected before any query is built
//   - CONFLICT: a uniqueness constraint rejected the write
//   - NOT_FOUND: a referenced row does not exist (e.g. an unknown owner)
//   - DATA_FAULT: connectivity, syntax or any other database failure
//
// A lookup that simply matches no row is not an error at all; accessors
// return a nil record with a nil error for that case.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindNotFound   Kind = "NOT_FOUND"
	KindDataFault  Kind = "DATA_FAULT"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is the single error type returned by repositories.
//
// Code is machine-friendly (e.g. "USER_ALREADY_EXISTS"), Message is
// human-friendly, Errors carries per-field validation problems and Err
// is the underlying cause, if any.
type Error struct {
	Kind    Kind         `json:"kind"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrDataFault  = &Error{Kind: KindDataFault}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if b.Len() == 0 {
		b.WriteString(strings.ToLower(string(e.Kind)))
	}
	for i, fe := range e.Errors {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", fe.Field, fe.Error)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
//
// Only the Kind is compared, so errors.Is(err, errs.ErrConflict) holds for
// every conflict regardless of code or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
// Example:
//
//	"already exists" -> "ALREADY_EXISTS"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
