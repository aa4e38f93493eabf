package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/lightbnb/internal/models"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

var propertyColumns = []string{
	"id", "owner_id", "title", "description", "thumbnail_photo_url", "cover_photo_url",
	"cost_per_night", "parking_spaces", "number_of_bathrooms", "number_of_bedrooms",
	"country", "street", "city", "province", "post_code", "active",
}

// qualifiedPropertyColumns lists the properties columns prefixed with alias.
func qualifiedPropertyColumns(alias string) string {
	cols := make([]string, len(propertyColumns))
	for i, c := range propertyColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// propertyInsertColumns is the single source of the INSERT column order.
// Column names, placeholders and arguments are all derived from it.
var propertyInsertColumns = []struct {
	name  string
	value func(*models.PropertyInput) any
}{
	{"owner_id", func(p *models.PropertyInput) any { return p.OwnerID }},
	{"title", func(p *models.PropertyInput) any { return p.Title }},
	{"description", func(p *models.PropertyInput) any { return p.Description }},
	{"thumbnail_photo_url", func(p *models.PropertyInput) any { return p.ThumbnailPhotoURL }},
	{"cover_photo_url", func(p *models.PropertyInput) any { return p.CoverPhotoURL }},
	{"cost_per_night", func(p *models.PropertyInput) any { return coerceInt(p.CostPerNight) }},
	{"parking_spaces", func(p *models.PropertyInput) any { return coerceInt(p.ParkingSpaces) }},
	{"number_of_bathrooms", func(p *models.PropertyInput) any { return coerceInt(p.NumberOfBathrooms) }},
	{"number_of_bedrooms", func(p *models.PropertyInput) any { return coerceInt(p.NumberOfBedrooms) }},
	{"country", func(p *models.PropertyInput) any { return p.Country }},
	{"street", func(p *models.PropertyInput) any { return p.Street }},
	{"city", func(p *models.PropertyInput) any { return p.City }},
	{"province", func(p *models.PropertyInput) any { return p.Province }},
	{"post_code", func(p *models.PropertyInput) any { return p.PostCode }},
}

// coerceInt converts a form value to an integer. Anything that does not
// parse, including nil and "", becomes 0. Strings are read as base 10, so
// "010" is 10.
func coerceInt(v any) int {
	if s, ok := v.(string); ok {
		v = decimalString(s)
	}
	return cast.ToInt(v)
}

// decimalString trims s and drops leading zeros so that cast, which honours
// base prefixes, reads a zero-padded number as decimal instead of octal.
func decimalString(s string) string {
	s = strings.TrimSpace(s)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	digits := strings.TrimLeft(s, "0")
	if len(digits) < len(s) && (digits == "" || digits[0] == '.') {
		digits = "0" + digits
	}
	return sign + digits
}

func buildPropertyInsert(in *models.PropertyInput) (string, []any) {
	names := make([]string, len(propertyInsertColumns))
	placeholders := make([]string, len(propertyInsertColumns))
	args := make([]any, len(propertyInsertColumns))

	for i, col := range propertyInsertColumns {
		names[i] = col.name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = col.value(in)
	}

	stmt := fmt.Sprintf("INSERT INTO properties (%s)\nVALUES (%s)\nRETURNING %s",
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(propertyColumns, ", "),
	)
	return stmt, args
}

type PropertyRepository struct {
	db  DBTX
	log *zerolog.Logger
}

func NewPropertyRepository(db DBTX, logger *zerolog.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, log: logger}
}

// Search returns up to limit properties matching filter, cheapest first.
// Each listing carries the average rating of its reviews. No match is an
// empty, non-nil slice.
func (r *PropertyRepository) Search(ctx context.Context, filter PropertyFilter, limit int) ([]models.PropertyListing, error) {
	const operation = "properties.search"

	if err := validation.Validate(filter); err != nil {
		return nil, fail(r.log, operation, err)
	}
	if err := validateLimit(limit); err != nil {
		return nil, fail(r.log, operation, err)
	}

	search := buildPropertySearch(filter, limit)

	rows, err := r.db.Query(ctx, search.SQL, search.Args...)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	listings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PropertyListing])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}
	if listings == nil {
		listings = []models.PropertyListing{}
	}

	return listings, nil
}

// GetByID returns the property with this id, or nil when none exists.
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	const operation = "properties.get_by_id"

	stmt := `SELECT ` + strings.Join(propertyColumns, ", ") + ` FROM properties WHERE id = $1`

	rows, err := r.db.Query(ctx, stmt, id)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	property, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Property])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fail(r.log, operation, err)
	}

	return &property, nil
}

// Create inserts a property and returns the stored row.
//
// Numeric fields that cannot be read as integers are stored as 0. An
// owner_id without a matching user is a NOT_FOUND error.
func (r *PropertyRepository) Create(ctx context.Context, input models.PropertyInput) (*models.Property, error) {
	const operation = "properties.create"

	if err := validation.Validate(input); err != nil {
		return nil, fail(r.log, operation, err)
	}

	stmt, args := buildPropertyInsert(&input)

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	property, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Property])
	if err != nil {
		return nil, fail(r.log, operation, err)
	}

	return &property, nil
}
