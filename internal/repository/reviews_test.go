package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/models"
)

func TestReviewRepository_Create(t *testing.T) {
	t.Run("rating out of range", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewReviewRepository(db, newTestLogger())

		_, err := repo.Create(context.Background(), models.CreateReviewParams{
			GuestID: 1, PropertyID: 1, ReservationID: 1, Rating: 6,
		})
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("expected VALIDATION, got %v", err)
		}
		if db.count() != 0 {
			t.Fatal("database must not be queried")
		}
	})

	t.Run("empty message is stored as null", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewReviewRepository(db, newTestLogger())

		// The empty fake result makes the read-back fail; only the arguments matter here.
		_, _ = repo.Create(context.Background(), models.CreateReviewParams{
			GuestID: 1, PropertyID: 2, ReservationID: 3, Rating: 4,
		})

		args := db.last().args
		if len(args) != 5 {
			t.Fatalf("args = %v", args)
		}
		if msg, ok := args[4].(*string); !ok || msg != nil {
			t.Errorf("message arg = %#v, want nil *string", args[4])
		}
	})
}
