package repository

import (
	"context"
	"time"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/models"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type ReservationRepository struct {
	db  DBTX
	log *zerolog.Logger
	now func() time.Time
}

func NewReservationRepository(db DBTX, logger *zerolog.Logger) *ReservationRepository {
	return &ReservationRepository{db: db, log: logger, now: time.Now}
}

// ListPastForGuest returns the guest's completed stays, most recent first,
// each joined with the reserved property. A stay is past once its end date
// is before the current time.
func (r *ReservationRepository) ListPastForGuest(ctx context.Context, guestID int64, limit int) ([]models.GuestReservation, error) {
	const operation = "reservations.list_past_for_guest"

	if guestID <= 0 {
		return nil, fail(r.log, operation, errs.NewFieldError("guest_id", "must be greater than 0"))
	}
	if err := validateLimit(limit); err != nil {
		return nil, fail(r.log, operation, err)
	}

	stmt := `
		SELECT r.id AS reservation_id, r.start_date, r.end_date, r.guest_id, ` + qualifiedPropertyColumns("p") + `
		FROM reservations r
		JOIN properties p ON p.id = r.property_id
		WHERE r.guest_id = $1 AND r.end_date < $2
		ORDER BY r.end_date DESC, r.id DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, stmt, guestID, r.now(), limit)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	reservations, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GuestReservation])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}
	if reservations == nil {
		reservations = []models.GuestReservation{}
	}

	return reservations, nil
}

// Create books a property for a guest. An unknown guest or property is a
// NOT_FOUND error.
func (r *ReservationRepository) Create(ctx context.Context, params models.CreateReservationParams) (*models.Reservation, error) {
	const operation = "reservations.create"

	if err := validation.Validate(params); err != nil {
		return nil, fail(r.log, operation, err)
	}

	stmt := `
		INSERT INTO reservations (start_date, end_date, property_id, guest_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, start_date, end_date, property_id, guest_id`

	rows, err := r.db.Query(ctx, stmt, params.StartDate, params.EndDate, params.PropertyID, params.GuestID)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	reservation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Reservation])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	return &reservation, nil
}
