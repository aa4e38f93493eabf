// Package repository handles all interactions with the database.
//
// It contains the raw SQL and the query builders behind every accessor,
// keeping SQL away from callers. Each accessor is a single round trip on
// the injected DBTX: no retries, no transactions.
//
// Outcomes callers can tell apart:
//   - a lookup that matches nothing returns a nil record and a nil error
//   - bad input returns an errs VALIDATION error and never reaches the database
//   - constraint violations come back as CONFLICT / NOT_FOUND / VALIDATION
//   - anything else the database reports is a DATA_FAULT
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DefaultLimit caps list results when the caller has no preference.
const DefaultLimit = 10

// DBTX is the subset of *pgxpool.Pool (and pgx.Tx) the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return errs.NewFieldError("limit", "must be greater than 0")
	}
	return nil
}

// fail classifies err and logs it with the operation name.
// Validation problems are the caller's fault and stay at debug level.
func fail(log *zerolog.Logger, operation string, err error) error {
	err = sqlerr.HandleError(operation, err)

	switch {
	case errors.Is(err, errs.ErrValidation):
		log.Debug().Err(err).Str("operation", operation).Msg("rejected input")
	case errors.Is(err, errs.ErrDataFault):
		log.Error().Stack().Err(err).Str("operation", operation).Msg("database operation failed")
	default:
		log.Warn().Err(err).Str("operation", operation).Msg("database rejected write")
	}
	return err
}
