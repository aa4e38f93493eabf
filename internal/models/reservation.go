package models

import "time"

// Reservation maps to the `reservations` table.
type Reservation struct {
	ID         int64     `db:"id" json:"id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	PropertyID int64     `db:"property_id" json:"property_id"`
	GuestID    int64     `db:"guest_id" json:"guest_id"`
}

// GuestReservation is a reservation joined with the reserved property.
//
// Property is embedded so its columns are matched by name alongside the
// reservation's own aliased columns.
type GuestReservation struct {
	ReservationID int64     `db:"reservation_id" json:"reservation_id"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	GuestID       int64     `db:"guest_id" json:"guest_id"`
	Property
}
