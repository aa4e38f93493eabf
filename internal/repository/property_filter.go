package repository

import (
	"fmt"
	"math"
	"strings"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/validation"
	"github.com/spf13/cast"
)

// Keys understood by ParsePropertyFilter.
const (
	FilterCity                 = "city"
	FilterMinimumPricePerNight = "minimum_price_per_night"
	FilterMaximumPricePerNight = "maximum_price_per_night"
	FilterMinimumRating        = "minimum_rating"
	FilterIncludeUnreviewed    = "include_unreviewed"
)

// MaxRating is the highest rating a review can carry.
const MaxRating = 5

// PropertyFilter narrows a property search. A nil field does not
// constrain the search; set fields are combined with AND.
//
// Prices are in the same unit as properties.cost_per_night (cents).
// A zero price bound is a real bound, not an absent one.
type PropertyFilter struct {
	// City matches case-insensitively anywhere in the city name.
	City                 *string
	MinimumPricePerNight *int
	MaximumPricePerNight *int
	// MinimumRating applies to the average of all the property's reviews.
	MinimumRating *float64
	// IncludeUnreviewed keeps properties without any review in the results,
	// with a nil average. They are left out by default.
	IncludeUnreviewed bool
}

func (f PropertyFilter) Validate() error {
	var fieldErrors validation.CustomValidationErrors

	if f.MinimumPricePerNight != nil && *f.MinimumPricePerNight < 0 {
		fieldErrors = append(fieldErrors, validation.CustomValidationError{
			Field: FilterMinimumPricePerNight, Message: "must not be negative",
		})
	}
	if f.MaximumPricePerNight != nil && *f.MaximumPricePerNight < 0 {
		fieldErrors = append(fieldErrors, validation.CustomValidationError{
			Field: FilterMaximumPricePerNight, Message: "must not be negative",
		})
	}
	if f.MinimumPricePerNight != nil && f.MaximumPricePerNight != nil &&
		*f.MinimumPricePerNight > *f.MaximumPricePerNight {
		fieldErrors = append(fieldErrors, validation.CustomValidationError{
			Field: FilterMinimumPricePerNight, Message: "must not exceed maximum_price_per_night",
		})
	}
	if f.MinimumRating != nil {
		rating := *f.MinimumRating
		if math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 || rating > MaxRating {
			fieldErrors = append(fieldErrors, validation.CustomValidationError{
				Field: FilterMinimumRating, Message: fmt.Sprintf("must be between 0 and %d", MaxRating),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ParsePropertyFilter reads a filter from its string form, as submitted by
// a search form or command line. Empty values are treated as absent and
// unknown keys are ignored.
//
// Prices are read as base 10 integers; "0100" is 100.
func ParsePropertyFilter(values map[string]string) (PropertyFilter, error) {
	var (
		filter      PropertyFilter
		fieldErrors []errs.FieldError
	)

	get := func(key string) (string, bool) {
		v := strings.TrimSpace(values[key])
		return v, v != ""
	}

	if city, ok := get(FilterCity); ok {
		filter.City = &city
	}

	for _, key := range []string{FilterMinimumPricePerNight, FilterMaximumPricePerNight} {
		raw, ok := get(key)
		if !ok {
			continue
		}
		price, err := cast.ToIntE(decimalString(raw))
		if err != nil {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: key, Error: "must be a whole number"})
			continue
		}
		if key == FilterMinimumPricePerNight {
			filter.MinimumPricePerNight = &price
		} else {
			filter.MaximumPricePerNight = &price
		}
	}

	if raw, ok := get(FilterMinimumRating); ok {
		rating, err := cast.ToFloat64E(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: FilterMinimumRating, Error: "must be a number"})
		} else {
			filter.MinimumRating = &rating
		}
	}

	if raw, ok := get(FilterIncludeUnreviewed); ok {
		include, err := cast.ToBoolE(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: FilterIncludeUnreviewed, Error: "must be true or false"})
		}
		filter.IncludeUnreviewed = include
	}

	if len(fieldErrors) > 0 {
		return PropertyFilter{}, errs.NewValidationError("Validation failed", fieldErrors)
	}
	return filter, nil
}

// clause is the SQL clause a predicate belongs to.
type clause int

const (
	whereClause clause = iota
	havingClause
)

func (c clause) keyword() string {
	if c == havingClause {
		return "HAVING"
	}
	return "WHERE"
}

// predicate is one filter condition. expr holds a single %s for the
// positional placeholder.
type predicate struct {
	clause clause
	expr   string
	value  any
}

// propertySearch is a fully built search statement. Args[i] binds to $i+1.
type propertySearch struct {
	SQL        string
	Args       []any
	predicates []predicate
}

// predicates returns the conditions of f in binding order:
// city, minimum price, maximum price, minimum rating.
func (f PropertyFilter) predicates() []predicate {
	var preds []predicate

	if f.City != nil && strings.TrimSpace(*f.City) != "" {
		preds = append(preds, predicate{whereClause, "p.city ILIKE %s", "%" + escapeLike(strings.TrimSpace(*f.City)) + "%"})
	}
	if f.MinimumPricePerNight != nil {
		preds = append(preds, predicate{whereClause, "p.cost_per_night >= %s", *f.MinimumPricePerNight})
	}
	if f.MaximumPricePerNight != nil {
		preds = append(preds, predicate{whereClause, "p.cost_per_night <= %s", *f.MaximumPricePerNight})
	}
	if f.MinimumRating != nil {
		preds = append(preds, predicate{havingClause, "avg(r.rating) >= %s", *f.MinimumRating})
	}

	return preds
}

// buildPropertySearch renders the search statement for f. It holds no
// state between calls.
func buildPropertySearch(f PropertyFilter, limit int) propertySearch {
	preds := f.predicates()
	args := make([]any, 0, len(preds)+1)

	var where, having []string
	for _, p := range preds {
		args = append(args, p.value)
		cond := fmt.Sprintf(p.expr, fmt.Sprintf("$%d", len(args)))
		if p.clause == havingClause {
			having = append(having, cond)
		} else {
			where = append(where, cond)
		}
	}

	join := "JOIN"
	if f.IncludeUnreviewed {
		join = "LEFT JOIN"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(qualifiedPropertyColumns("p"))
	b.WriteString(", avg(r.rating)::float8 AS average_rating\n")
	b.WriteString("FROM properties p\n")
	b.WriteString(join)
	b.WriteString(" property_reviews r ON r.property_id = p.id\n")
	writeConditions(&b, whereClause, where)
	b.WriteString("GROUP BY p.id\n")
	writeConditions(&b, havingClause, having)
	args = append(args, limit)
	fmt.Fprintf(&b, "ORDER BY p.cost_per_night ASC, p.id ASC\nLIMIT $%d", len(args))

	return propertySearch{SQL: b.String(), Args: args, predicates: preds}
}

// writeConditions emits the clause keyword before the first condition and
// AND before every following one.
func writeConditions(b *strings.Builder, c clause, conds []string) {
	for i, cond := range conds {
		if i == 0 {
			b.WriteString(c.keyword())
		} else {
			b.WriteString("  AND")
		}
		b.WriteString(" ")
		b.WriteString(cond)
		b.WriteString("\n")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
