package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/models"
)

func TestReservationRepository_ListPastForGuest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{}
	repo := NewReservationRepository(db, newTestLogger())
	repo.now = func() time.Time { return now }

	got, err := repo.ListPastForGuest(context.Background(), 7, DefaultLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %#v", got)
	}

	q := db.last()
	for _, fragment := range []string{
		"r.id AS reservation_id",
		"JOIN properties p ON p.id = r.property_id",
		"WHERE r.guest_id = $1 AND r.end_date < $2",
		"ORDER BY r.end_date DESC, r.id DESC",
		"LIMIT $3",
	} {
		if !strings.Contains(q.sql, fragment) {
			t.Errorf("sql missing %q:\n%s", fragment, q.sql)
		}
	}

	if len(q.args) != 3 || q.args[0] != int64(7) || q.args[1] != now || q.args[2] != DefaultLimit {
		t.Errorf("args = %v", q.args)
	}
}

func TestReservationRepository_ListPastForGuest_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		guestID int64
		limit   int
		field   string
	}{
		{"zero guest", 0, 10, "guest_id"},
		{"negative guest", -3, 10, "guest_id"},
		{"zero limit", 1, 0, "limit"},
		{"negative limit", 1, -1, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{}
			repo := NewReservationRepository(db, newTestLogger())

			_, err := repo.ListPastForGuest(context.Background(), tt.guestID, tt.limit)

			var appErr *errs.Error
			if !errors.As(err, &appErr) || appErr.Kind != errs.KindValidation {
				t.Fatalf("expected VALIDATION, got %v", err)
			}
			if appErr.Errors[0].Field != tt.field {
				t.Errorf("field = %q, want %q", appErr.Errors[0].Field, tt.field)
			}
			if db.count() != 0 {
				t.Fatal("database must not be queried")
			}
		})
	}
}

func TestReservationRepository_Create_EndBeforeStart(t *testing.T) {
	db := &fakeDB{}
	repo := NewReservationRepository(db, newTestLogger())

	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(context.Background(), models.CreateReservationParams{
		PropertyID: 1,
		GuestID:    2,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, -1),
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	if db.count() != 0 {
		t.Fatal("database must not be queried")
	}
}
