package models

// PropertyReview maps to the `property_reviews` table.
// Ratings are averaged per property in search results.
type PropertyReview struct {
	ID            int64   `db:"id" json:"id"`
	GuestID       int64   `db:"guest_id" json:"guest_id"`
	PropertyID    int64   `db:"property_id" json:"property_id"`
	ReservationID int64   `db:"reservation_id" json:"reservation_id"`
	Rating        int16   `db:"rating" json:"rating"`
	Message       *string `db:"message" json:"message,omitempty"`
}
