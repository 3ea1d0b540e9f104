// Package omdb provides a client for the OMDb movie-metadata API.
//
// The client issues exactly one HTTP request per call. Retrying with another
// API key is the job of the credentials package.
package omdb

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/marquee/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://www.omdbapi.com"
	defaultTimeout       = 10 * time.Second
	defaultRatePerSecond = 5
)

var (
	// ErrEmptyQuery is returned when a search is issued without a title.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page must be at least 1")
	// ErrEmptyID is returned when a lookup is issued without an IMDb ID.
	ErrEmptyID = errors.New("imdb id is empty")
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an OMDb API client. The API key is supplied per call.
type Client struct {
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new OMDb API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: ratelimit.New("OMDB", defaultRatePerSecond),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the OMDb API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithRequestsPerSecond replaces the limiter; a non-positive rate disables it.
func WithRequestsPerSecond(rps float64) Option {
	return func(client *Client) {
		client.rateLimiter = ratelimit.New("OMDB", rps)
	}
}
