package omdb

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

// PageSize is the number of results OMDb returns per search page.
const PageSize = 10

// Search performs a paginated title search using the given API key.
// A "not found" answer is not an error: it yields an empty page.
func (c *Client) Search(ctx context.Context, apiKey, query string, page int) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	params := url.Values{}
	params.Set("s", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("apikey", apiKey)

	slog.Debug("Searching OMDB", "query", query, "page", page)

	var response searchResponse
	if err := c.getJSON(ctx, params, &response); err != nil {
		return nil, err
	}

	if !bool(response.Response) {
		rejected := marqueeerrors.NewAPIRejectedError(response.Error)
		if marqueeerrors.IsNotFound(rejected) {
			slog.Debug("No OMDB results", "query", query, "page", page, "error", response.Error)
			return &SearchPage{Summaries: []SearchSummary{}}, nil
		}
		return nil, rejected
	}

	summaries := response.Search
	if summaries == nil {
		summaries = []SearchSummary{}
	}

	return &SearchPage{
		Summaries:    summaries,
		TotalResults: int(response.TotalResults),
	}, nil
}

// PageCount returns the number of search pages for a result total.
func PageCount(totalResults int) int {
	if totalResults <= 0 {
		return 0
	}
	return (totalResults + PageSize - 1) / PageSize
}
