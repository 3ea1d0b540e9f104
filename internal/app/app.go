// Package app owns the session state of a movie search: the current query
// and page, the enriched results, the active sort/filter criteria, and
// whether the detail view is open.
package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/marquee/internal/credentials"
	"github.com/lepinkainen/marquee/internal/enrich"
	"github.com/lepinkainen/marquee/internal/favorites"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/sortfilter"
	cache "github.com/patrickmn/go-cache"
)

const defaultSessionTTL = 30 * time.Minute

// Gateway is the subset of the OMDb client the app calls.
type Gateway interface {
	Search(ctx context.Context, apiKey, query string, page int) (*omdb.SearchPage, error)
	GetByID(ctx context.Context, apiKey, imdbID string) (*omdb.MovieDetail, error)
}

// ViewState is the transient state of the current session. It is never
// persisted.
type ViewState struct {
	Page         int
	Query        string
	TotalResults int
	Criteria     sortfilter.Criteria
	Movies       []omdb.MovieDetail
	DetailsOpen  bool
}

// Card is a movie ready for display together with its favorite flag.
type Card struct {
	omdb.MovieDetail
	Favorite bool
}

// App coordinates the gateway, credential selector, enrichment, favorites
// and sorting for one interactive session.
type App struct {
	gateway   Gateway
	selector  *credentials.Selector
	favorites *favorites.Store
	enricher  *enrich.Enricher
	memo      *cache.Cache
	progress  enrich.ProgressFunc

	mu    sync.RWMutex
	state ViewState
}

// Option is a functional option for configuring the App.
type Option func(*App)

// WithProgress registers a callback receiving enrichment progress.
func WithProgress(fn enrich.ProgressFunc) Option {
	return func(a *App) {
		a.progress = fn
	}
}

// WithSessionCacheTTL sets how long fetched details are reused within the
// session. A non-positive ttl keeps the default.
func WithSessionCacheTTL(ttl time.Duration) Option {
	return func(a *App) {
		if ttl > 0 {
			a.memo = cache.New(ttl, 2*ttl)
		}
	}
}

// New creates an App. A nil favorites store keeps favorites in memory only.
func New(gateway Gateway, selector *credentials.Selector, favs *favorites.Store, opts ...Option) *App {
	if favs == nil {
		favs = favorites.NewStore(nil)
	}

	a := &App{
		gateway:   gateway,
		selector:  selector,
		favorites: favs,
		memo:      cache.New(defaultSessionTTL, 2*defaultSessionTTL),
		state: ViewState{
			Page:     1,
			Criteria: sortfilter.DefaultCriteria(),
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	a.enricher = enrich.New(a.fetchDetail)
	return a
}

// fetchDetail looks up a single movie through the selector and records it in
// the session memo.
func (a *App) fetchDetail(ctx context.Context, imdbID string) (*omdb.MovieDetail, error) {
	detail, err := credentials.Do(ctx, a.selector, func(ctx context.Context, key string) (*omdb.MovieDetail, error) {
		return a.gateway.GetByID(ctx, key, imdbID)
	})
	if err != nil {
		return nil, err
	}

	a.memo.SetDefault(imdbID, *detail)
	return detail, nil
}

// Search runs a title search for page, enriches every result and makes the
// outcome the current result set. The active sort/filter criteria are kept.
// It returns the view of the new result set.
func (a *App) Search(ctx context.Context, query string, page int) ([]Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, omdb.ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}

	slog.Debug("Searching", "query", query, "page", page)

	result, err := credentials.Do(ctx, a.selector, func(ctx context.Context, key string) (*omdb.SearchPage, error) {
		return a.gateway.Search(ctx, key, query, page)
	})
	if err != nil {
		return nil, err
	}

	movies := a.enricher.Enrich(ctx, result.Summaries, a.progress)
	slog.Debug("Search complete", "query", query, "page", page, "results", len(movies), "total", result.TotalResults)

	a.mu.Lock()
	a.state.Query = query
	a.state.Page = page
	a.state.TotalResults = result.TotalResults
	a.state.Movies = movies
	a.state.DetailsOpen = false
	a.mu.Unlock()

	return a.View(), nil
}

// PageCount returns the number of result pages for the current query.
func (a *App) PageCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return omdb.PageCount(a.state.TotalResults)
}

// NextPage loads the following page. On the last page it is a no-op that
// returns the current view.
func (a *App) NextPage(ctx context.Context) ([]Card, error) {
	a.mu.RLock()
	query, page := a.state.Query, a.state.Page
	pages := omdb.PageCount(a.state.TotalResults)
	a.mu.RUnlock()

	if query == "" || page >= pages {
		return a.View(), nil
	}
	return a.Search(ctx, query, page+1)
}

// PrevPage loads the preceding page. On the first page it is a no-op that
// returns the current view.
func (a *App) PrevPage(ctx context.Context) ([]Card, error) {
	a.mu.RLock()
	query, page := a.state.Query, a.state.Page
	a.mu.RUnlock()

	if query == "" || page <= 1 {
		return a.View(), nil
	}
	return a.Search(ctx, query, page-1)
}

// LoadDetails fetches the full record for imdbID and opens the detail view.
// Details fetched earlier in the session are served from memory.
func (a *App) LoadDetails(ctx context.Context, imdbID string) (*omdb.MovieDetail, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, omdb.ErrEmptyID
	}

	var detail omdb.MovieDetail
	if cached, ok := a.memo.Get(imdbID); ok {
		slog.Debug("Detail served from session memo", "imdb_id", imdbID)
		detail = cached.(omdb.MovieDetail)
	} else {
		fetched, err := a.fetchDetail(ctx, imdbID)
		if err != nil {
			return nil, err
		}
		detail = *fetched
	}

	a.mu.Lock()
	a.state.DetailsOpen = true
	a.mu.Unlock()

	return &detail, nil
}

// CloseDetails returns from the detail view to the result list.
func (a *App) CloseDetails() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.DetailsOpen = false
}

// ToggleFavorite flips the favorite state of entry and returns the new state.
func (a *App) ToggleFavorite(entry favorites.Entry) bool {
	favorited := a.favorites.Toggle(entry)
	slog.Debug("Favorite toggled", "imdb_id", entry.ImdbID, "favorite", favorited)
	return favorited
}

// ListFavorites returns the favorites in insertion order.
func (a *App) ListFavorites() []favorites.Entry {
	return a.favorites.List()
}

// IsFavorite reports whether imdbID is a favorite.
func (a *App) IsFavorite(imdbID string) bool {
	return a.favorites.IsFavorite(imdbID)
}

// ApplySortFilter replaces the active criteria and returns the resulting view.
func (a *App) ApplySortFilter(c sortfilter.Criteria) []Card {
	if c.Field == "" {
		c.Field = sortfilter.FieldTitle
	}
	if c.Direction == "" {
		c.Direction = sortfilter.Ascending
	}

	a.mu.Lock()
	a.state.Criteria = c
	a.mu.Unlock()

	return a.View()
}

// View returns the current result set sorted and filtered by the active
// criteria, with favorite flags.
func (a *App) View() []Card {
	a.mu.RLock()
	movies := sortfilter.Apply(a.state.Movies, a.state.Criteria)
	a.mu.RUnlock()

	cards := make([]Card, len(movies))
	for i, m := range movies {
		cards[i] = Card{MovieDetail: m, Favorite: a.favorites.IsFavorite(m.ImdbID)}
	}
	return cards
}

// State returns a snapshot of the session state.
func (a *App) State() ViewState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	s.Movies = slices.Clone(a.state.Movies)
	return s
}

// FavoriteEntry copies the fields a favorite keeps from a movie.
func FavoriteEntry(m omdb.MovieDetail) favorites.Entry {
	return favorites.Entry{
		ImdbID: m.ImdbID,
		Title:  m.Title,
		Year:   m.Year,
		Poster: m.Poster,
	}
}
