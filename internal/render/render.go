// Package render formats result cards, movie details and favorites as
// plain text for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/favorites"
	"github.com/lepinkainen/marquee/internal/omdb"
)

const (
	favoriteMark   = "♥"
	unfavoriteMark = "♡"
	noPlot         = "No plot information available."
	notAvailable   = "Not Available"
)

// Mark returns the favorite marker for a card.
func Mark(favorite bool) string {
	if favorite {
		return favoriteMark
	}
	return unfavoriteMark
}

// orNA returns value, or N/A when it is empty.
func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return omdb.NotAvailable
	}
	return value
}

// Header returns the summary line above a result list.
func Header(count, page, pages int) string {
	noun := "movies"
	if count == 1 {
		noun = "movie"
	}
	if pages > 1 {
		return fmt.Sprintf("Found %d %s (page %d of %d)", count, noun, page, pages)
	}
	return fmt.Sprintf("Found %d %s", count, noun)
}

// Card renders one result. Genre, language and rating lines are omitted when
// unknown; the box office line is always present.
func Card(c app.Card) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s (%s)\n", Mark(c.Favorite), c.Title, c.ImdbID)
	fmt.Fprintf(&sb, "  Year: %s\n", orNA(c.Year))
	fmt.Fprintf(&sb, "  Type: %s\n", orNA(c.Type))
	if omdb.IsAvailable(c.Genre) {
		fmt.Fprintf(&sb, "  Genre: %s\n", c.Genre)
	}
	if omdb.IsAvailable(c.Language) {
		fmt.Fprintf(&sb, "  Language: %s\n", c.Language)
	}
	if omdb.IsAvailable(c.ImdbRating) {
		fmt.Fprintf(&sb, "  Rating: %s/10\n", c.ImdbRating)
	}
	fmt.Fprintf(&sb, "  Box Office: %s\n", orNA(c.BoxOffice))

	return sb.String()
}

// Results renders the header followed by every card, or the no-results
// message for an empty list.
func Results(cards []app.Card, page, pages int) string {
	if len(cards) == 0 {
		return app.MsgNoResults + "\n"
	}

	var sb strings.Builder
	sb.WriteString(Header(len(cards), page, pages))
	sb.WriteString("\n")
	for _, c := range cards {
		sb.WriteString("\n")
		sb.WriteString(Card(c))
	}
	return sb.String()
}

// Detail renders the full record of one movie.
func Detail(d omdb.MovieDetail, favorite bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s (%s)\n\n", Mark(favorite), d.Title, orNA(d.Year))

	line := func(label, value string) {
		fmt.Fprintf(&sb, "%-13s %s\n", label+":", value)
	}

	line("Genre", orNA(d.Genre))
	line("Director", orNA(d.Director))
	line("Writer", orNA(d.Writer))
	line("Actors", orNA(d.Actors))
	line("Runtime", orNA(d.Runtime))
	if omdb.IsAvailable(d.ImdbRating) {
		line("IMDb Rating", d.ImdbRating+"/10")
	} else {
		line("IMDb Rating", omdb.NotAvailable)
	}
	line("Language", orNA(d.Language))
	line("Country", orNA(d.Country))
	line("Awards", orNA(d.Awards))
	if omdb.IsAvailable(d.BoxOffice) {
		line("Box Office", d.BoxOffice)
	} else {
		line("Box Office", notAvailable)
	}
	if omdb.IsAvailable(d.Production) {
		line("Production", d.Production)
	}
	if omdb.IsAvailable(d.Released) {
		line("Released", d.Released)
	}
	if omdb.IsAvailable(d.Rated) {
		line("Rated", d.Rated)
	}
	if omdb.IsAvailable(d.Metascore) {
		line("Metascore", d.Metascore+"/100")
	}

	if section := RatingsSection(ParseRatings(d)); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}

	plot := d.Plot
	if !omdb.IsAvailable(plot) {
		plot = noPlot
	}
	sb.WriteString("\nPlot\n  ")
	sb.WriteString(plot)
	sb.WriteString("\n")

	return sb.String()
}

// Favorites renders the favorites list, or the empty-state message.
func Favorites(entries []favorites.Entry) string {
	if len(entries) == 0 {
		return app.MsgNoFavorites + "\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Favorites (%d)\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s (%s) %s\n", favoriteMark, e.Title, orNA(e.Year), e.ImdbID)
	}
	return sb.String()
}
