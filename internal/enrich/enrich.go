// Package enrich upgrades search summaries to full movie details with one
// lookup per item.
package enrich

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/marquee/internal/omdb"
)

// Fetcher retrieves the detail record for a single IMDb ID.
type Fetcher func(ctx context.Context, imdbID string) (*omdb.MovieDetail, error)

// Progress reports how far an enrichment pass has come.
type Progress struct {
	Current int // 1-based index of the item just processed
	Total   int
	Stage   string
}

// ProgressFunc receives a Progress after every item. It must not block.
type ProgressFunc func(Progress)

var stageMessages = []string{
	"Loading movie magic...",
	"Gathering cinema data...",
	"Collecting film details...",
	"Preparing movie info...",
	"Almost ready...",
}

// StageMessage returns the loader label for the zero-based item index.
func StageMessage(index, total int) string {
	if total <= 0 {
		return stageMessages[0]
	}
	i := index * len(stageMessages) / total
	if i >= len(stageMessages) {
		i = len(stageMessages) - 1
	}
	if i < 0 {
		i = 0
	}
	return stageMessages[i]
}

// Enricher runs the per-item detail lookups.
type Enricher struct {
	fetch Fetcher
}

// New creates an Enricher using fetch for every lookup.
func New(fetch Fetcher) *Enricher {
	return &Enricher{fetch: fetch}
}

// Enrich looks up every summary in order, one request at a time.
//
// The result always has the same length and order as summaries. A failed
// lookup yields a placeholder built from the summary instead of an error.
// Once ctx is done the remaining items become placeholders without a request.
func (e *Enricher) Enrich(ctx context.Context, summaries []omdb.SearchSummary, progress ProgressFunc) []omdb.MovieDetail {
	details := make([]omdb.MovieDetail, 0, len(summaries))
	total := len(summaries)

	for i, summary := range summaries {
		details = append(details, e.enrichOne(ctx, summary))

		if progress != nil {
			progress(Progress{
				Current: i + 1,
				Total:   total,
				Stage:   StageMessage(i, total),
			})
		}
	}

	return details
}

func (e *Enricher) enrichOne(ctx context.Context, summary omdb.SearchSummary) omdb.MovieDetail {
	if ctx.Err() != nil {
		return Placeholder(summary)
	}

	detail, err := e.fetch(ctx, summary.ImdbID)
	if err != nil {
		slog.Debug("Detail lookup failed, using placeholder", "imdb_id", summary.ImdbID, "title", summary.Title, "error", err)
		return Placeholder(summary)
	}
	if detail == nil {
		return Placeholder(summary)
	}

	result := *detail
	result.Normalize()
	return result
}

// Placeholder builds a detail record from a summary when the lookup failed.
func Placeholder(summary omdb.SearchSummary) omdb.MovieDetail {
	detail := omdb.MovieDetail{
		ImdbID:     summary.ImdbID,
		Title:      summary.Title,
		Year:       summary.Year,
		Type:       summary.Type,
		Poster:     summary.Poster,
		Genre:      summary.Genre,
		Language:   summary.Language,
		BoxOffice:  omdb.NotAvailable,
		ImdbRating: omdb.NotAvailable,
	}
	detail.Normalize()
	return detail
}
