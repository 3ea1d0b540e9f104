package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

const maxErrorBody = 512

// getJSON issues a single GET against the API root and decodes the body into target.
func (c *Client) getJSON(ctx context.Context, params url.Values, target any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return marqueeerrors.NewTransportError(err)
	}

	endpoint := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return marqueeerrors.NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		// OMDb answers a bad key with 401 and a regular error payload. Keep
		// the credential-scoped classification so the selector can act on it.
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && !bool(envelope.Response) && envelope.Error != "" {
			rejected := marqueeerrors.NewAPIRejectedError(envelope.Error)
			if marqueeerrors.IsCredentialScoped(rejected) {
				slog.Debug("OMDB rejected credential", "status", resp.StatusCode, "error", envelope.Error)
				return rejected
			}
		}
		return marqueeerrors.NewHTTPError(resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return marqueeerrors.NewTransportError(err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return marqueeerrors.NewMalformedResponseError(err)
	}
	return nil
}
