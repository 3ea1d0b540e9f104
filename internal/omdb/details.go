package omdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

// GetByID retrieves the full record for an IMDb ID using the given API key.
func (c *Client) GetByID(ctx context.Context, apiKey, imdbID string) (*MovieDetail, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, ErrEmptyID
	}

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("apikey", apiKey)

	slog.Debug("Fetching OMDB data by IMDb ID", "imdb_id", imdbID)

	var response detailResponse
	if err := c.getJSON(ctx, params, &response); err != nil {
		return nil, err
	}

	if !bool(response.Response) {
		return nil, marqueeerrors.NewAPIRejectedError(response.Error)
	}

	if response.ImdbID == "" || response.Title == "" {
		return nil, marqueeerrors.NewMalformedResponseError(
			fmt.Errorf("invalid or empty response from OMDB API for ID: %s", imdbID))
	}

	detail := response.MovieDetail
	detail.Normalize()
	return &detail, nil
}
