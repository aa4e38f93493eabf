package models

import (
	"github.com/deppfellow/lightbnb/internal/validation"
)

// Property maps to the `properties` table.
//
// cost_per_night is stored as an integer in the smallest currency unit
// (cents); search price bounds use the same unit.
type Property struct {
	ID                int64  `db:"id" json:"id"`
	OwnerID           int64  `db:"owner_id" json:"owner_id"`
	Title             string `db:"title" json:"title"`
	Description       string `db:"description" json:"description"`
	ThumbnailPhotoURL string `db:"thumbnail_photo_url" json:"thumbnail_photo_url"`
	CoverPhotoURL     string `db:"cover_photo_url" json:"cover_photo_url"`
	CostPerNight      int64  `db:"cost_per_night" json:"cost_per_night"`
	ParkingSpaces     int    `db:"parking_spaces" json:"parking_spaces"`
	NumberOfBathrooms int    `db:"number_of_bathrooms" json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `db:"number_of_bedrooms" json:"number_of_bedrooms"`
	Country           string `db:"country" json:"country"`
	Street            string `db:"street" json:"street"`
	City              string `db:"city" json:"city"`
	Province          string `db:"province" json:"province"`
	PostCode          string `db:"post_code" json:"post_code"`
	Active            bool   `db:"active" json:"active"`
}

// PropertyListing is a search result: a property plus the average of its
// review ratings. AverageRating is nil for a property without reviews.
type PropertyListing struct {
	Property
	AverageRating *float64 `db:"average_rating" json:"average_rating"`
}

// PropertyInput is the flat record accepted when creating a property,
// typically straight from a submitted form.
//
// The numeric fields accept an integer or its decimal string form ("3").
// Values that cannot be coerced become 0 instead of being rejected; that
// fallback keeps form submissions with blank optional numbers working but
// also hides genuinely bad input, so callers wanting strictness must check
// before calling.
type PropertyInput struct {
	OwnerID           int64  `json:"owner_id" validate:"required,gt=0"`
	Title             string `json:"title" validate:"required,max=255"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url" validate:"required,max=255"`
	CoverPhotoURL     string `json:"cover_photo_url" validate:"required,max=255"`
	CostPerNight      any    `json:"cost_per_night"`
	ParkingSpaces     any    `json:"parking_spaces"`
	NumberOfBathrooms any    `json:"number_of_bathrooms"`
	NumberOfBedrooms  any    `json:"number_of_bedrooms"`
	Country           string `json:"country" validate:"required,max=255"`
	Street            string `json:"street" validate:"required,max=255"`
	City              string `json:"city" validate:"required,max=255"`
	Province          string `json:"province" validate:"required,max=255"`
	PostCode          string `json:"post_code" validate:"required,max=255"`
}

func (p PropertyInput) Validate() error {
	return validation.Struct(p)
}
