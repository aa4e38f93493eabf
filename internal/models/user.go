// Package models holds the row shapes returned by the repositories and
// the flat input records they accept.
package models

import "github.com/deppfellow/lightbnb/internal/validation"

// User maps to the `users` table.
//
// Password is an opaque string; this layer neither hashes nor checks it.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

// CreateUserParams holds the fields required to create a user.
type CreateUserParams struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

func (p CreateUserParams) Validate() error {
	return validation.Struct(p)
}
