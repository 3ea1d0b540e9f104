// Package sortfilter orders and narrows an enriched result set.
package sortfilter

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lepinkainen/marquee/internal/omdb"
)

// Field names the attribute a result set is ordered by.
type Field string

const (
	FieldTitle     Field = "title"
	FieldYear      Field = "year"
	FieldBoxOffice Field = "boxoffice"
	FieldRating    Field = "rating"
	FieldGenre     Field = "genre"
	FieldLanguage  Field = "language"
)

// Fields lists every sort field in the order the browser cycles through them.
var Fields = []Field{FieldTitle, FieldYear, FieldBoxOffice, FieldRating, FieldGenre, FieldLanguage}

// Direction is the sort order for direction-respecting fields.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Criteria selects the ordering and filters applied to a result set.
type Criteria struct {
	Field     Field
	Direction Direction
	Genre     string
	Language  string
}

// DefaultCriteria orders by title ascending with no filters.
func DefaultCriteria() Criteria {
	return Criteria{Field: FieldTitle, Direction: Ascending}
}

// ParseField validates a user supplied sort field. An empty string selects title.
func ParseField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FieldTitle, nil
	}
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q (want one of title, year, boxoffice, rating, genre, language)", s)
}

// ParseDirection validates a user supplied sort direction. An empty string selects ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
	}
}

// Next returns the field after f in Fields, wrapping around.
func (f Field) Next() Field {
	i := slices.Index(Fields, f)
	return Fields[(i+1)%len(Fields)]
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Apply returns a new slice holding movies ordered and filtered by c.
// The input slice is never modified.
//
// For the genre and language fields the set is first narrowed to entries whose
// field contains the filter case-insensitively, then ordered by title
// ascending; the direction is ignored. Every other field respects the
// direction.
func Apply(movies []omdb.MovieDetail, c Criteria) []omdb.MovieDetail {
	var out []omdb.MovieDetail

	switch c.Field {
	case FieldGenre:
		out = filterContains(movies, c.Genre, func(m omdb.MovieDetail) string { return m.Genre })
	case FieldLanguage:
		out = filterContains(movies, c.Language, func(m omdb.MovieDetail) string { return m.Language })
	default:
		out = slices.Clone(movies)
	}
	if out == nil {
		out = []omdb.MovieDetail{}
	}

	var compare func(a, b omdb.MovieDetail) int
	switch c.Field {
	case FieldYear:
		compare = func(a, b omdb.MovieDetail) int { return cmp.Compare(ParseYear(a.Year), ParseYear(b.Year)) }
	case FieldRating:
		compare = func(a, b omdb.MovieDetail) int { return cmp.Compare(ParseRating(a.ImdbRating), ParseRating(b.ImdbRating)) }
	case FieldBoxOffice:
		compare = func(a, b omdb.MovieDetail) int {
			return cmp.Compare(ParseBoxOffice(a.BoxOffice), ParseBoxOffice(b.BoxOffice))
		}
	default:
		compare = compareTitle
	}

	if c.Direction == Descending && c.Field != FieldGenre && c.Field != FieldLanguage {
		asc := compare
		compare = func(a, b omdb.MovieDetail) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

func compareTitle(a, b omdb.MovieDetail) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

func filterContains(movies []omdb.MovieDetail, needle string, field func(omdb.MovieDetail) string) []omdb.MovieDetail {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return slices.Clone(movies)
	}

	out := make([]omdb.MovieDetail, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(field(m)), needle) {
			out = append(out, m)
		}
	}
	return out
}

// ParseYear returns the leading integer of a year string such as "2001–2003".
// Unparsable values are 0.
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return year
}

// ParseRating parses an IMDb rating; unparsable values are 0.
func ParseRating(s string) float64 {
	return parseFloatOrZero(s)
}

// ParseBoxOffice parses a currency string such as "$1,234,567"; "N/A" and
// unparsable values are 0.
func ParseBoxOffice(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	return parseFloatOrZero(s)
}

func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == omdb.NotAvailable {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
