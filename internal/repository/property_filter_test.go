package repository

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/lightbnb/internal/errs"
	"github.com/deppfellow/lightbnb/internal/validation"
)

func ptr[T any](v T) *T { return &v }

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// filterFromMask sets city, minimum price, maximum price and minimum
// rating for bits 0..3 respectively.
func filterFromMask(mask int) PropertyFilter {
	var f PropertyFilter
	if mask&1 != 0 {
		f.City = ptr("Vancouver")
	}
	if mask&2 != 0 {
		f.MinimumPricePerNight = ptr(1000)
	}
	if mask&4 != 0 {
		f.MaximumPricePerNight = ptr(50000)
	}
	if mask&8 != 0 {
		f.MinimumRating = ptr(3.5)
	}
	return f
}

func TestBuildPropertySearch_AllFilterCombinations(t *testing.T) {
	const limit = 7

	for mask := 0; mask < 16; mask++ {
		f := filterFromMask(mask)
		t.Run(fmt.Sprintf("mask=%04b", mask), func(t *testing.T) {
			search := buildPropertySearch(f, limit)

			var wantArgs []any
			whereCount := 0
			if f.City != nil {
				wantArgs = append(wantArgs, "%Vancouver%")
				whereCount++
			}
			if f.MinimumPricePerNight != nil {
				wantArgs = append(wantArgs, 1000)
				whereCount++
			}
			if f.MaximumPricePerNight != nil {
				wantArgs = append(wantArgs, 50000)
				whereCount++
			}
			if f.MinimumRating != nil {
				wantArgs = append(wantArgs, 3.5)
			}
			wantArgs = append(wantArgs, limit)

			if !reflect.DeepEqual(search.Args, wantArgs) {
				t.Fatalf("args = %v, want %v", search.Args, wantArgs)
			}

			// Placeholders appear once each, numbered in order of use.
			matches := placeholderRe.FindAllStringSubmatch(search.SQL, -1)
			if len(matches) != len(wantArgs) {
				t.Fatalf("found %d placeholders for %d args:\n%s", len(matches), len(wantArgs), search.SQL)
			}
			for i, m := range matches {
				if m[1] != fmt.Sprint(i+1) {
					t.Errorf("placeholder %d is $%s", i+1, m[1])
				}
			}

			if got := strings.Contains(search.SQL, "\nWHERE "); got != (whereCount > 0) {
				t.Errorf("WHERE present = %v, want %v", got, whereCount > 0)
			}
			if got := strings.Contains(search.SQL, "\nHAVING "); got != (f.MinimumRating != nil) {
				t.Errorf("HAVING present = %v, want %v", got, f.MinimumRating != nil)
			}

			wantAnds := 0
			if whereCount > 1 {
				wantAnds = whereCount - 1
			}
			if got := strings.Count(search.SQL, "\n  AND "); got != wantAnds {
				t.Errorf("AND connectors = %d, want %d", got, wantAnds)
			}

			if !strings.HasSuffix(search.SQL, fmt.Sprintf("LIMIT $%d", len(wantArgs))) {
				t.Errorf("limit must bind last:\n%s", search.SQL)
			}
		})
	}
}

func TestBuildPropertySearch_CityAndRating(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{
		City:          ptr("ancouver"),
		MinimumRating: ptr(4.0),
	}, 10)

	wantArgs := []any{"%ancouver%", 4.0, 10}
	if !reflect.DeepEqual(search.Args, wantArgs) {
		t.Fatalf("args = %v, want %v", search.Args, wantArgs)
	}

	for _, fragment := range []string{
		"WHERE p.city ILIKE $1\n",
		"GROUP BY p.id\nHAVING avg(r.rating) >= $2\n",
		"ORDER BY p.cost_per_night ASC, p.id ASC\nLIMIT $3",
		"\nJOIN property_reviews r ON r.property_id = p.id",
	} {
		if !strings.Contains(search.SQL, fragment) {
			t.Errorf("sql missing %q:\n%s", fragment, search.SQL)
		}
	}
}

func TestBuildPropertySearch_NoFilters(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{}, 5)

	if !reflect.DeepEqual(search.Args, []any{5}) {
		t.Fatalf("args = %v", search.Args)
	}
	if strings.Contains(search.SQL, "WHERE") || strings.Contains(search.SQL, "HAVING") {
		t.Errorf("no conditions expected:\n%s", search.SQL)
	}
	if !strings.HasSuffix(search.SQL, "LIMIT $1") {
		t.Errorf("unexpected sql:\n%s", search.SQL)
	}
	if len(search.predicates) != 0 {
		t.Errorf("predicates = %v", search.predicates)
	}
}

func TestBuildPropertySearch_IncludeUnreviewed(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{IncludeUnreviewed: true}, 10)
	if !strings.Contains(search.SQL, "LEFT JOIN property_reviews r") {
		t.Errorf("expected left join:\n%s", search.SQL)
	}
}

func TestBuildPropertySearch_ZeroPriceIsABound(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{MinimumPricePerNight: ptr(0)}, 10)
	if !strings.Contains(search.SQL, "WHERE p.cost_per_night >= $1") {
		t.Errorf("zero minimum must still constrain:\n%s", search.SQL)
	}
}

func TestBuildPropertySearch_EscapesCityWildcards(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{City: ptr(`50%_off\`)}, 10)
	if got, want := search.Args[0], `%50\%\_off\\%`; got != want {
		t.Errorf("city arg = %q, want %q", got, want)
	}
}

func TestBuildPropertySearch_BlankCityIsAbsent(t *testing.T) {
	search := buildPropertySearch(PropertyFilter{City: ptr("  ")}, 10)
	if len(search.Args) != 1 {
		t.Errorf("args = %v", search.Args)
	}
}

func TestBuildPropertySearch_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(mask int) {
			defer wg.Done()
			search := buildPropertySearch(filterFromMask(mask), mask+1)
			if got := search.Args[len(search.Args)-1]; got != mask+1 {
				t.Errorf("mask %d: limit arg = %v", mask, got)
			}
			if want := len(filterFromMask(mask).predicates()) + 1; len(search.Args) != want {
				t.Errorf("mask %d: %d args, want %d", mask, len(search.Args), want)
			}
		}(i % 16)
	}
	wg.Wait()
}

func TestPropertyFilter_Validate(t *testing.T) {
	tests := []struct {
		name   string
		filter PropertyFilter
		field  string
	}{
		{"negative minimum", PropertyFilter{MinimumPricePerNight: ptr(-1)}, FilterMinimumPricePerNight},
		{"negative maximum", PropertyFilter{MaximumPricePerNight: ptr(-5)}, FilterMaximumPricePerNight},
		{"minimum above maximum", PropertyFilter{MinimumPricePerNight: ptr(300), MaximumPricePerNight: ptr(200)}, FilterMinimumPricePerNight},
		{"rating too high", PropertyFilter{MinimumRating: ptr(5.5)}, FilterMinimumRating},
		{"negative rating", PropertyFilter{MinimumRating: ptr(-0.1)}, FilterMinimumRating},
		{"NaN rating", PropertyFilter{MinimumRating: ptr(math.NaN())}, FilterMinimumRating},
		{"infinite rating", PropertyFilter{MinimumRating: ptr(math.Inf(1))}, FilterMinimumRating},
		{"valid", PropertyFilter{MinimumPricePerNight: ptr(0), MaximumPricePerNight: ptr(0), MinimumRating: ptr(5.0)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.filter)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) || appErr.Kind != errs.KindValidation {
				t.Fatalf("expected VALIDATION, got %v", err)
			}
			if appErr.Errors[0].Field != tt.field {
				t.Errorf("field = %q, want %q", appErr.Errors[0].Field, tt.field)
			}
		})
	}
}

func TestParsePropertyFilter(t *testing.T) {
	f, err := ParsePropertyFilter(map[string]string{
		FilterCity:                 " Vancouver ",
		FilterMinimumPricePerNight: "1000",
		FilterMaximumPricePerNight: "",
		FilterMinimumRating:        "4.5",
		FilterIncludeUnreviewed:    "true",
		"sort":                     "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.City == nil || *f.City != "Vancouver" {
		t.Errorf("city = %v", f.City)
	}
	if f.MinimumPricePerNight == nil || *f.MinimumPricePerNight != 1000 {
		t.Errorf("minimum = %v", f.MinimumPricePerNight)
	}
	if f.MaximumPricePerNight != nil {
		t.Errorf("empty maximum should be absent, got %v", *f.MaximumPricePerNight)
	}
	if f.MinimumRating == nil || *f.MinimumRating != 4.5 {
		t.Errorf("rating = %v", f.MinimumRating)
	}
	if !f.IncludeUnreviewed {
		t.Error("include_unreviewed should be set")
	}
}

func TestParsePropertyFilter_ZeroPaddedPrices(t *testing.T) {
	f, err := ParsePropertyFilter(map[string]string{
		FilterMinimumPricePerNight: "0100",
		FilterMaximumPricePerNight: "09",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.MinimumPricePerNight == nil || *f.MinimumPricePerNight != 100 {
		t.Errorf("minimum = %v, want 100", f.MinimumPricePerNight)
	}
	if f.MaximumPricePerNight == nil || *f.MaximumPricePerNight != 9 {
		t.Errorf("maximum = %v, want 9", f.MaximumPricePerNight)
	}
}

func TestParsePropertyFilter_NonNumeric(t *testing.T) {
	_, err := ParsePropertyFilter(map[string]string{
		FilterMinimumPricePerNight: "cheap",
		FilterMinimumRating:        "good",
	})

	var appErr *errs.Error
	if !errors.As(err, &appErr) || appErr.Kind != errs.KindValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	fields := map[string]bool{}
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	if !fields[FilterMinimumPricePerNight] || !fields[FilterMinimumRating] {
		t.Errorf("field errors = %+v", appErr.Errors)
	}
}

func TestParsePropertyFilter_Empty(t *testing.T) {
	f, err := ParsePropertyFilter(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f, PropertyFilter{}) {
		t.Errorf("filter = %+v", f)
	}
}
