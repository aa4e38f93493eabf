package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/lightbnb/internal/models"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const userColumns = `id, name, email, password`

type UserRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewUserRepository(db DBTX, logger *zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: logger}
}

// GetByEmail returns the user with exactly this email, or nil when none exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByID returns the user with this id, or nil when none exists.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, operation, sql string, arg any) (*models.User, error) {
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fail(r.log, operation, err)
	}

	return &user, nil
}

// Create inserts a user and returns the stored row.
// A duplicate email is reported as a CONFLICT error.
func (r *UserRepository) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	const operation = "users.create"

	if err := validation.Validate(params); err != nil {
		return nil, fail(r.log, operation, err)
	}

	stmt := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	rows, err := r.db.Query(ctx, stmt, params.Name, params.Email, params.Password)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	return &user, nil
}
