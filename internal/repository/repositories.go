package repository

import (
	"github.com/rs/zerolog"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users        *UserRepository
	Properties   *PropertyRepository
	Reservations *ReservationRepository
	Reviews      *ReviewRepository
}

// NewRepositories builds every repository on the same pool.
//
// db is normally the *pgxpool.Pool owned by database.Database; the
// repositories never open or close it.
func NewRepositories(db DBTX, logger *zerolog.Logger) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db, logger),
		Properties:   NewPropertyRepository(db, logger),
		Reservations: NewReservationRepository(db, logger),
		Reviews:      NewReviewRepository(db, logger),
	}
}
