package render

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lepinkainen/marquee/internal/omdb"
)

// Ratings holds the review scores OMDb reports for a movie.
type Ratings struct {
	IMDb           float64
	RottenTomatoes string // e.g. "94%"
	Tomatometer    int    // parsed percentage (0-100)
	Metacritic     int    // score out of 100
}

// ParseRatings collects the scores of d. The imdbRating field takes
// precedence over the IMDb entry of the Ratings list.
func ParseRatings(d omdb.MovieDetail) Ratings {
	var r Ratings

	if omdb.IsAvailable(d.ImdbRating) {
		if v, err := parseIMDbRating(d.ImdbRating); err == nil {
			r.IMDb = v
		} else {
			slog.Debug("Failed to parse IMDb rating", "value", d.ImdbRating, "error", err)
		}
	}

	for _, rating := range d.Ratings {
		switch rating.Source {
		case "Internet Movie Database":
			if r.IMDb == 0 {
				if v, err := parseIMDbRating(rating.Value); err == nil {
					r.IMDb = v
				}
			}
		case "Rotten Tomatoes":
			if pct, err := parseRottenTomatoes(rating.Value); err == nil {
				r.RottenTomatoes = strings.TrimSpace(rating.Value)
				r.Tomatometer = pct
			} else {
				slog.Debug("Failed to parse Rotten Tomatoes rating", "value", rating.Value, "error", err)
			}
		case "Metacritic":
			if mc, err := parseMetacritic(rating.Value); err == nil {
				r.Metacritic = mc
			} else {
				slog.Debug("Failed to parse Metacritic rating", "value", rating.Value, "error", err)
			}
		}
	}

	if r.Metacritic == 0 && omdb.IsAvailable(d.Metascore) {
		if mc, err := strconv.Atoi(strings.TrimSpace(d.Metascore)); err == nil {
			r.Metacritic = mc
		}
	}

	return r
}

// RatingsSection renders the review scores as an aligned block.
// It returns an empty string when no score is known.
func RatingsSection(r Ratings) string {
	var rows [][2]string
	if r.IMDb > 0 {
		rows = append(rows, [2]string{"IMDb", fmt.Sprintf("%.1f/10", r.IMDb)})
	}
	if r.RottenTomatoes != "" {
		rows = append(rows, [2]string{"Rotten Tomatoes", r.RottenTomatoes})
	}
	if r.Metacritic > 0 {
		rows = append(rows, [2]string{"Metacritic", fmt.Sprintf("%d/100", r.Metacritic)})
	}
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Ratings\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "  %-16s %s\n", row[0], row[1])
	}
	return sb.String()
}

// parseIMDbRating parses "8.8/10" or "8.8".
func parseIMDbRating(value string) (float64, error) {
	if !omdb.IsAvailable(value) {
		return 0, fmt.Errorf("empty or N/A value")
	}
	score, _, _ := strings.Cut(value, "/")
	rating, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rating: %w", err)
	}
	return rating, nil
}

// parseRottenTomatoes parses "94%".
func parseRottenTomatoes(value string) (int, error) {
	if !omdb.IsAvailable(value) {
		return 0, fmt.Errorf("empty or N/A value")
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if err != nil {
		return 0, fmt.Errorf("failed to parse percentage: %w", err)
	}
	return pct, nil
}

// parseMetacritic parses "85/100".
func parseMetacritic(value string) (int, error) {
	if !omdb.IsAvailable(value) {
		return 0, fmt.Errorf("empty or N/A value")
	}
	score, _, _ := strings.Cut(value, "/")
	mc, err := strconv.Atoi(strings.TrimSpace(score))
	if err != nil {
		return 0, fmt.Errorf("failed to parse score: %w", err)
	}
	return mc, nil
}
