// Package utils contains small helper functions used across the project.
package utils

import (
	"io"

	"github.com/goccy/go-json"
)

// PrintJSON writes v to w as tab-indented JSON followed by a newline.
// A nil pointer prints as null.
func PrintJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	return encoder.Encode(v)
}
