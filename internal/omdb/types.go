package omdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NotAvailable is the sentinel OMDb uses for a field it has no value for.
const NotAvailable = "N/A"

// FlexBool decodes the OMDb success flag, which is usually the string
// "True"/"False" but is accepted as a native JSON boolean too.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = FlexBool(strings.EqualFold(strings.TrimSpace(s), "true"))
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("omdb: invalid boolean %s", string(data))
	}
	*b = FlexBool(v)
	return nil
}

// FlexInt decodes counts that OMDb sends as decimal strings ("totalResults": "42").
// Empty strings and "N/A" decode to zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" || s == NotAvailable {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("omdb: invalid integer %q: %w", s, err)
		}
		*n = FlexInt(v)
		return nil
	}
	var v json.Number
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("omdb: invalid integer %s", string(data))
	}
	i, err := v.Int64()
	if err != nil {
		return fmt.Errorf("omdb: invalid integer %s: %w", string(data), err)
	}
	*n = FlexInt(i)
	return nil
}

// SearchSummary is a single entry of a title search.
type SearchSummary struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
	// Search results normally omit these; they are kept when present so a
	// placeholder detail can reuse them.
	Genre    string `json:"Genre,omitempty"`
	Language string `json:"Language,omitempty"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Summaries    []SearchSummary
	TotalResults int
}

// Rating represents a rating from a specific source
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieDetail is the enriched record returned by a lookup by IMDb ID.
type MovieDetail struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings,omitempty"`
	Metascore  string   `json:"Metascore"`
	ImdbRating string   `json:"imdbRating"`
	ImdbVotes  string   `json:"imdbVotes"`
	ImdbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	BoxOffice  string   `json:"BoxOffice"`
	Production string   `json:"Production"`
	Website    string   `json:"Website,omitempty"`
}

// Normalize replaces empty sortable and filterable fields with NotAvailable.
// Title and Year are left as received: they always come from the API.
func (d *MovieDetail) Normalize() {
	for _, field := range []*string{&d.Genre, &d.Language, &d.ImdbRating, &d.BoxOffice, &d.Poster} {
		if strings.TrimSpace(*field) == "" {
			*field = NotAvailable
		}
	}
}

// IsAvailable reports whether an OMDb field carries a real value.
func IsAvailable(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && value != NotAvailable
}

type searchResponse struct {
	Search       []SearchSummary `json:"Search"`
	TotalResults FlexInt         `json:"totalResults"`
	Response     FlexBool        `json:"Response"`
	Error        string          `json:"Error"`
}

type detailResponse struct {
	MovieDetail
	Response FlexBool `json:"Response"`
	Error    string   `json:"Error"`
}

type errorEnvelope struct {
	Response FlexBool `json:"Response"`
	Error    string   `json:"Error"`
}
