package omdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"github.com/lepinkainen/marquee/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
	"Search": [
		{"Title": "Alien", "Year": "1979", "imdbID": "tt0078748", "Type": "movie", "Poster": "https://img.test/alien.jpg"},
		{"Title": "Aliens", "Year": "1986", "imdbID": "tt0090605", "Type": "movie", "Poster": "N/A"}
	],
	"totalResults": "23",
	"Response": "True"
}`

const detailBody = `{
	"Title": "Alien", "Year": "1979", "Rated": "R", "Released": "22 Jun 1979",
	"Runtime": "117 min", "Genre": "Horror, Sci-Fi", "Director": "Ridley Scott",
	"Writer": "Dan O'Bannon", "Actors": "Sigourney Weaver", "Plot": "In space.",
	"Language": "English", "Country": "United Kingdom", "Awards": "Won 1 Oscar",
	"Poster": "https://img.test/alien.jpg",
	"Ratings": [{"Source": "Internet Movie Database", "Value": "8.5/10"}],
	"Metascore": "89", "imdbRating": "8.5", "imdbVotes": "950,000",
	"imdbID": "tt0078748", "Type": "movie", "BoxOffice": "$84,206,106",
	"Response": "True"
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithRequestsPerSecond(0))
	return client, server
}

func TestClientOptionsApply(t *testing.T) {
	customHTTP := &http.Client{}
	limiter := ratelimit.New("OMDB", 2)

	client := NewClient(
		WithBaseURL("https://example.test/"),
		WithHTTPClient(customHTTP),
		WithRateLimiter(limiter),
	)

	require.Equal(t, "https://example.test", client.baseURL)
	require.Equal(t, customHTTP, client.httpClient)
	require.Equal(t, limiter, client.rateLimiter)

	defaults := NewClient(WithHTTPClient(nil), WithRateLimiter(nil), WithBaseURL(""))
	require.Equal(t, defaultBaseURL, defaults.baseURL)
	require.NotNil(t, defaults.rateLimiter)

	unlimited := NewClient(WithRequestsPerSecond(0))
	require.Nil(t, unlimited.rateLimiter)
}

func TestSearchSendsParametersAndDecodes(t *testing.T) {
	var got url.Values
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(searchBody))
	})

	page, err := client.Search(context.Background(), "key-1", "  alien ", 2)
	require.NoError(t, err)

	assert.Equal(t, "alien", got.Get("s"))
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "key-1", got.Get("apikey"))

	require.Len(t, page.Summaries, 2)
	assert.Equal(t, 23, page.TotalResults)
	assert.Equal(t, "tt0078748", page.Summaries[0].ImdbID)
	assert.Equal(t, "Aliens", page.Summaries[1].Title)
	assert.Equal(t, NotAvailable, page.Summaries[1].Poster)
}

func TestSearchAcceptsNativeBooleanAndNumber(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Search":[{"Title":"Up","Year":"2009","imdbID":"tt1049413","Type":"movie","Poster":"N/A"}],"totalResults":1,"Response":true}`))
	})

	page, err := client.Search(context.Background(), "key", "up", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalResults)
	require.Len(t, page.Summaries, 1)
}

func TestSearchNotFoundIsEmptyPage(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})

	page, err := client.Search(context.Background(), "key", "zzzzqqq", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Summaries)
	assert.Zero(t, page.TotalResults)
}

func TestSearchRejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"invalid key in 200", http.StatusOK, `{"Response":"False","Error":"Invalid API key!"}`, marqueeerrors.IsInvalidCredential},
		{"invalid key in 401", http.StatusUnauthorized, `{"Response":"False","Error":"Invalid API key!"}`, marqueeerrors.IsInvalidCredential},
		{"request limit", http.StatusUnauthorized, `{"Response":"False","Error":"Request limit reached!"}`, marqueeerrors.IsRateLimitError},
		{"too many results", http.StatusOK, `{"Response":"False","Error":"Too many results."}`, marqueeerrors.IsAPIRejected},
		{"server error", http.StatusInternalServerError, `oops`, marqueeerrors.IsHTTPError},
		{"malformed", http.StatusOK, `{"Response":`, marqueeerrors.IsAPIRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			page, err := client.Search(context.Background(), "key", "alien", 1)
			require.Error(t, err)
			assert.Nil(t, page)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestSearchHTTPErrorCarriesStatus(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	})

	_, err := client.Search(context.Background(), "key", "alien", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")

	var gwErr *marqueeerrors.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusServiceUnavailable, gwErr.StatusCode)
}

func TestSearchValidatesInput(t *testing.T) {
	client := NewClient(WithHTTPClient(failingDoer{}))

	_, err := client.Search(context.Background(), "key", "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = client.Search(context.Background(), "key", "alien", 0)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = client.GetByID(context.Background(), "key", "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, &url.Error{Op: "Get", URL: "http://omdb.test", Err: errors.New("connection refused")}
}

func TestTransportFailure(t *testing.T) {
	client := NewClient(WithHTTPClient(failingDoer{}), WithRequestsPerSecond(0))

	_, err := client.Search(context.Background(), "key", "alien", 1)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsTransport(err))

	_, err = client.GetByID(context.Background(), "key", "tt0078748")
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsTransport(err))
}

type brokenBodyDoer struct{}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("unexpected EOF") }

func (brokenBodyDoer) Do(*http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(brokenReader{})}, nil
}

func TestBodyReadFailureIsTransport(t *testing.T) {
	client := NewClient(WithHTTPClient(brokenBodyDoer{}), WithRequestsPerSecond(0))

	_, err := client.GetByID(context.Background(), "key", "tt0078748")
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsTransport(err))
}

func TestGetByIDDecodesDetail(t *testing.T) {
	var got url.Values
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(detailBody))
	})

	detail, err := client.GetByID(context.Background(), "key-2", "tt0078748")
	require.NoError(t, err)

	assert.Equal(t, "tt0078748", got.Get("i"))
	assert.Equal(t, "key-2", got.Get("apikey"))
	assert.Equal(t, "Alien", detail.Title)
	assert.Equal(t, "Horror, Sci-Fi", detail.Genre)
	assert.Equal(t, "$84,206,106", detail.BoxOffice)
	assert.Equal(t, "8.5", detail.ImdbRating)
	// Production is missing from the payload; only sortable fields are normalized.
	assert.Equal(t, "", detail.Production)
	require.Len(t, detail.Ratings, 1)
}

func TestGetByIDMissingFieldsNormalized(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Title":"Short","Year":"2020","imdbID":"tt1","Response":"True"}`))
	})

	detail, err := client.GetByID(context.Background(), "key", "tt1")
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, detail.Genre)
	assert.Equal(t, NotAvailable, detail.Language)
	assert.Equal(t, NotAvailable, detail.BoxOffice)
	assert.Equal(t, NotAvailable, detail.ImdbRating)
}

func TestGetByIDRejected(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
	})

	_, err := client.GetByID(context.Background(), "key", "tt-nope")
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsNotFound(err))
}

func TestGetByIDEmptyPayloadIsMalformed(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"True"}`))
	})

	_, err := client.GetByID(context.Background(), "key", "tt1")
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsAPIRejected(err))
	assert.True(t, strings.Contains(err.Error(), "malformed response"))
}
