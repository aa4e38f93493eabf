// Package validation contains the logic for validating
// input records before any query is built.
//
// It uses the `validator` library to enforce rules (like
// required fields or email formats) defined in struct tags
// and extracts validation errors into field-level messages
// the caller can understand.
package validation

import "github.com/go-playground/validator/v10"

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct runs the struct-tag rules of v.
//
// Validatable implementations call this from their Validate method.
func Struct(v any) error {
	return validate.Struct(v)
}
