package validation

import (
	"errors"
	"testing"

	"github.com/deppfellow/lightbnb/internal/errs"
)

type signupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=4"`
}

func (s signupInput) Validate() error { return Struct(s) }

type rangeInput struct {
	Min, Max int
}

func (r rangeInput) Validate() error {
	if r.Min > r.Max {
		return CustomValidationErrors{{Field: "minimum", Message: "must not exceed maximum"}}
	}
	return nil
}

func TestValidate_TagErrors(t *testing.T) {
	err := Validate(signupInput{Email: "not-an-email", Password: "abc"})

	var appErr *errs.Error
	if !errors.As(err, &appErr) || appErr.Kind != errs.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	got := map[string]string{}
	for _, fe := range appErr.Errors {
		got[fe.Field] = fe.Error
	}
	want := map[string]string{
		"name":     "is required",
		"email":    "must be a valid email address",
		"password": "must be at least 4 characters",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidate_CustomErrors(t *testing.T) {
	err := Validate(rangeInput{Min: 5, Max: 1})

	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *errs.Error, got %T", err)
	}
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != "minimum" {
		t.Fatalf("field errors = %+v", appErr.Errors)
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(signupInput{Name: "Ann", Email: "ann@example.com", Password: "hunter2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"CostPerNight":      "cost_per_night",
		"OwnerID":           "owner_id",
		"ThumbnailPhotoURL": "thumbnail_photo_url",
		"City":              "city",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
