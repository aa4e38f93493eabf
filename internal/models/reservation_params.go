package models

import (
	"time"

	"github.com/deppfellow/lightbnb/internal/validation"
)

// CreateReservationParams holds the fields required to book a property.
type CreateReservationParams struct {
	PropertyID int64     `json:"property_id" validate:"required,gt=0"`
	GuestID    int64     `json:"guest_id" validate:"required,gt=0"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
}

func (p CreateReservationParams) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if !p.EndDate.After(p.StartDate) {
		return validation.CustomValidationErrors{{Field: "end_date", Message: "must be after start_date"}}
	}
	return nil
}

// CreateReviewParams holds the fields required to review a stay.
type CreateReviewParams struct {
	GuestID       int64  `json:"guest_id" validate:"required,gt=0"`
	PropertyID    int64  `json:"property_id" validate:"required,gt=0"`
	ReservationID int64  `json:"reservation_id" validate:"required,gt=0"`
	Rating        int16  `json:"rating" validate:"required,min=1,max=5"`
	Message       string `json:"message"`
}

func (p CreateReviewParams) Validate() error {
	return validation.Struct(p)
}
