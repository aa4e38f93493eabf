package repository

import (
	"context"

	"github.com/deppfellow/lightbnb/internal/models"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type ReviewRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewReviewRepository(db DBTX, logger *zerolog.Logger) *ReviewRepository {
	return &ReviewRepository{db: db, log: logger}
}

// Create stores a guest's rating of a stay. An empty message is stored as NULL.
func (r *ReviewRepository) Create(ctx context.Context, params models.CreateReviewParams) (*models.PropertyReview, error) {
	const operation = "reviews.create"

	if err := validation.Validate(params); err != nil {
		return nil, fail(r.log, operation, err)
	}

	var message *string
	if params.Message != "" {
		message = &params.Message
	}

	stmt := `
		INSERT INTO property_reviews (guest_id, property_id, reservation_id, rating, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, guest_id, property_id, reservation_id, rating, message`

	rows, err := r.db.Query(ctx, stmt, params.GuestID, params.PropertyID, params.ReservationID, params.Rating, message)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.PropertyReview])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	return &review, nil
}
