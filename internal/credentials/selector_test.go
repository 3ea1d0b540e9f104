package credentials

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	keys    []string
	results map[string]error
}

func (r *recorder) call(_ context.Context, key string) (string, error) {
	r.keys = append(r.keys, key)
	if err, ok := r.results[key]; ok && err != nil {
		return "", err
	}
	return "ok:" + key, nil
}

func invalidKey() error { return marqueeerrors.NewAPIRejectedError("Invalid API key!") }

func TestNewSelectorDropsBlankAndDuplicateKeys(t *testing.T) {
	s := NewSelector(" primary ", "", "b", "primary", "c", "b")
	assert.Equal(t, []string{"primary", "b", "c"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, "primary", s.Keys()[0])
}

func TestDoPrimarySucceeds(t *testing.T) {
	r := &recorder{}
	result, err := Do(context.Background(), NewSelector("a", "b"), r.call)
	require.NoError(t, err)
	assert.Equal(t, "ok:a", result)
	assert.Equal(t, []string{"a"}, r.keys)
}

func TestDoFallsBackInOrderUntilSuccess(t *testing.T) {
	r := &recorder{results: map[string]error{
		"a": invalidKey(),
		"b": invalidKey(),
	}}

	result, err := Do(context.Background(), NewSelector("a", "b", "c", "d"), r.call)
	require.NoError(t, err)
	assert.Equal(t, "ok:c", result)
	assert.Equal(t, []string{"a", "b", "c"}, r.keys)
}

func TestDoExhaustsEveryKey(t *testing.T) {
	r := &recorder{results: map[string]error{
		"a": invalidKey(),
		"b": invalidKey(),
		"c": marqueeerrors.NewHTTPError(500, "down"),
	}}

	_, err := Do(context.Background(), NewSelector("a", "b", "c"), r.call)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsAllSourcesExhausted(err))
	assert.True(t, marqueeerrors.IsHTTPError(err), "exhausted error should wrap the last failure")
	assert.Equal(t, []string{"a", "b", "c"}, r.keys)

	var exhausted *marqueeerrors.AllSourcesExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, exhausted.Attempts)
}

func TestDoPrimaryNonCredentialFailureIsReturned(t *testing.T) {
	transport := marqueeerrors.NewTransportError(errors.New("dial tcp: refused"))
	r := &recorder{results: map[string]error{"a": transport}}

	_, err := Do(context.Background(), NewSelector("a", "b"), r.call)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsTransport(err))
	assert.False(t, marqueeerrors.IsAllSourcesExhausted(err))
	assert.Equal(t, []string{"a"}, r.keys)
}

func TestDoFallbackTransportFailureIsSkipped(t *testing.T) {
	r := &recorder{results: map[string]error{
		"a": invalidKey(),
		"b": marqueeerrors.NewTransportError(errors.New("timeout")),
	}}

	result, err := Do(context.Background(), NewSelector("a", "b", "c"), r.call)
	require.NoError(t, err)
	assert.Equal(t, "ok:c", result)
}

func TestDoFallbackNotFoundStops(t *testing.T) {
	r := &recorder{results: map[string]error{
		"a": invalidKey(),
		"b": marqueeerrors.NewAPIRejectedError("Incorrect IMDb ID."),
	}}

	_, err := Do(context.Background(), NewSelector("a", "b", "c"), r.call)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsNotFound(err))
	assert.Equal(t, []string{"a", "b"}, r.keys)
}

func TestDoRequestLimitMovesOn(t *testing.T) {
	r := &recorder{results: map[string]error{
		"a": marqueeerrors.NewRateLimitError("Request limit reached!"),
	}}

	result, err := Do(context.Background(), NewSelector("a", "b"), r.call)
	require.NoError(t, err)
	assert.Equal(t, "ok:b", result)
}

func TestDoWithoutKeys(t *testing.T) {
	r := &recorder{}
	_, err := Do(context.Background(), NewSelector(""), r.call)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsAllSourcesExhausted(err))
	assert.Empty(t, r.keys)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &recorder{}
	calls := 0
	_, err := Do(ctx, NewSelector("a", "b"), func(ctx context.Context, key string) (string, error) {
		calls++
		cancel()
		return r.call(ctx, key)
	})
	// The first call already succeeded before cancellation was observed.
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = Do(ctx, NewSelector("a", "b"), r.call)
	assert.ErrorIs(t, err, context.Canceled)
}

// A search answered with "Invalid API key!" issues exactly one extra search
// per fallback key, in order, against a real gateway.
func TestDoWithGatewayIssuesOneSearchPerFallback(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("apikey")
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
		if key != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			return
		}
		_, _ = w.Write([]byte(`{"Search":[{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie","Poster":"N/A"}],"totalResults":"1","Response":"True"}`))
	}))
	t.Cleanup(server.Close)

	client := omdb.NewClient(omdb.WithBaseURL(server.URL), omdb.WithHTTPClient(server.Client()), omdb.WithRequestsPerSecond(0))
	search := func(ctx context.Context, key string) (*omdb.SearchPage, error) {
		return client.Search(ctx, key, "alien", 1)
	}

	page, err := Do(context.Background(), NewSelector("primary", "f1", "good", "f3"), search)
	require.NoError(t, err)
	require.Len(t, page.Summaries, 1)
	assert.Equal(t, []string{"primary", "f1", "good"}, seen)

	seen = nil
	_, err = Do(context.Background(), NewSelector("primary", "f1", "f2"), search)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsAllSourcesExhausted(err))
	assert.Equal(t, []string{"primary", "f1", "f2"}, seen)
}
