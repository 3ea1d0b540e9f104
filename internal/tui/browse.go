// Package tui provides the interactive terminal movie browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/enrich"
	"github.com/lepinkainen/marquee/internal/favorites"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/render"
	"github.com/lepinkainen/marquee/internal/sortfilter"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Session is the application core the browser drives.
type Session interface {
	Search(ctx context.Context, query string, page int) ([]app.Card, error)
	NextPage(ctx context.Context) ([]app.Card, error)
	PrevPage(ctx context.Context) ([]app.Card, error)
	LoadDetails(ctx context.Context, imdbID string) (*omdb.MovieDetail, error)
	CloseDetails()
	ToggleFavorite(entry favorites.Entry) bool
	ListFavorites() []favorites.Entry
	IsFavorite(imdbID string) bool
	ApplySortFilter(c sortfilter.Criteria) []app.Card
	View() []app.Card
	State() app.ViewState
	PageCount() int
}

type viewMode int

const (
	modeResults viewMode = iota
	modeDetails
	modeFavorites
)

type resultsMsg struct {
	cards []app.Card
	err   error
}

type detailMsg struct {
	detail *omdb.MovieDetail
	err    error
}

type progressMsg enrich.Progress

type model struct {
	ctx      context.Context
	session  Session
	progress <-chan enrich.Progress

	list    list.Model
	query   string
	mode    viewMode
	loading bool
	status  string
	errMsg  string
	detail  *omdb.MovieDetail
}

func newModel(ctx context.Context, session Session, query string, progress <-chan enrich.Progress) *model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		ctx:      ctx,
		session:  session,
		progress: progress,
		list:     l,
		query:    strings.TrimSpace(query),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.startSearch(), m.waitForProgress())
}

func (m *model) startSearch() tea.Cmd {
	m.loading = true
	m.status = "Searching for movies..."
	m.errMsg = ""
	return m.searchCmd(m.query, 1)
}

func (m *model) searchCmd(query string, page int) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		cards, err := session.Search(ctx, query, page)
		return resultsMsg{cards: cards, err: err}
	}
}

func (m *model) pageCmd(next bool) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		var cards []app.Card
		var err error
		if next {
			cards, err = session.NextPage(ctx)
		} else {
			cards, err = session.PrevPage(ctx)
		}
		return resultsMsg{cards: cards, err: err}
	}
}

func (m *model) detailCmd(imdbID string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		detail, err := session.LoadDetails(ctx, imdbID)
		return detailMsg{detail: detail, err: err}
	}
}

func (m *model) waitForProgress() tea.Cmd {
	if m.progress == nil {
		return nil
	}
	ch := m.progress
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (m *model) setCards(cards []app.Card) tea.Cmd {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = cardItem{Card: c}
	}
	return m.list.SetItems(items)
}

func (m *model) selected() (app.Card, bool) {
	item, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return app.Card{}, false
	}
	return item.Card, true
}

func (m *model) applyCriteria(c sortfilter.Criteria) tea.Cmd {
	return m.setCards(m.session.ApplySortFilter(c))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg:
		m.loading = false
		m.status = ""
		if msg.err != nil {
			m.errMsg = app.UserMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.mode = modeResults
		m.detail = nil
		m.list.ResetSelected()
		return m, m.setCards(msg.cards)

	case detailMsg:
		m.loading = false
		m.status = ""
		if msg.err != nil {
			m.errMsg = app.DetailsMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.detail = msg.detail
		m.mode = modeDetails
		return m, nil

	case progressMsg:
		if m.loading {
			m.status = fmt.Sprintf("%s %d/%d", msg.Stage, msg.Current, msg.Total)
		}
		return m, m.waitForProgress()

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 5)
		m.list.SetSize(width, height)
	}

	if m.mode != modeResults {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKey processes browser shortcuts. Keys it does not handle fall
// through to the list for navigation.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return tea.Quit, true
	}
	if m.loading {
		return nil, true
	}

	switch m.mode {
	case modeDetails:
		switch key {
		case "esc", "backspace":
			m.session.CloseDetails()
			m.detail = nil
			m.mode = modeResults
			return m.setCards(m.session.View()), true
		case "f":
			if m.detail != nil {
				m.session.ToggleFavorite(app.FavoriteEntry(*m.detail))
			}
			return nil, true
		}
		return nil, true

	case modeFavorites:
		switch key {
		case "esc", "v", "backspace":
			m.mode = modeResults
			return m.setCards(m.session.View()), true
		}
		return nil, true
	}

	criteria := m.session.State().Criteria
	switch key {
	case "enter":
		card, ok := m.selected()
		if !ok {
			return nil, true
		}
		m.loading = true
		m.status = "Loading movie details..."
		return m.detailCmd(card.ImdbID), true
	case "f":
		card, ok := m.selected()
		if !ok {
			return nil, true
		}
		m.session.ToggleFavorite(app.FavoriteEntry(card.MovieDetail))
		return m.setCards(m.session.View()), true
	case "v":
		m.mode = modeFavorites
		return nil, true
	case "s":
		criteria.Field = criteria.Field.Next()
		return m.applyCriteria(criteria), true
	case "o":
		criteria.Direction = criteria.Direction.Flip()
		return m.applyCriteria(criteria), true
	case "g":
		card, ok := m.selected()
		if !ok {
			return nil, true
		}
		criteria.Field = sortfilter.FieldGenre
		criteria.Genre = firstItem(card.Genre)
		return m.applyCriteria(criteria), true
	case "l":
		card, ok := m.selected()
		if !ok {
			return nil, true
		}
		criteria.Field = sortfilter.FieldLanguage
		criteria.Language = firstItem(card.Language)
		return m.applyCriteria(criteria), true
	case "c":
		if criteria.Field == sortfilter.FieldGenre || criteria.Field == sortfilter.FieldLanguage {
			criteria.Field = sortfilter.FieldTitle
		}
		criteria.Genre, criteria.Language = "", ""
		return m.applyCriteria(criteria), true
	case "n", "p":
		state := m.session.State()
		if key == "n" && state.Page >= m.session.PageCount() {
			return nil, true
		}
		if key == "p" && state.Page <= 1 {
			return nil, true
		}
		m.loading = true
		m.status = "Loading page..."
		return m.pageCmd(key == "n"), true
	case "esc":
		return nil, true
	}

	return nil, false
}

func (m *model) View() string {
	state := m.session.State()
	pages := m.session.PageCount()

	header := headerStyle.Render(fmt.Sprintf("marquee: %q  page %d/%d  %s", m.query, state.Page, max(pages, 1), describeCriteria(state.Criteria)))

	var body string
	switch m.mode {
	case modeDetails:
		if m.detail != nil {
			body = panelStyle.Render(strings.TrimRight(render.Detail(*m.detail, m.session.IsFavorite(m.detail.ImdbID)), "\n"))
		}
	case modeFavorites:
		body = panelStyle.Render(strings.TrimRight(render.Favorites(m.session.ListFavorites()), "\n"))
	default:
		if len(m.list.Items()) == 0 && !m.loading && m.errMsg == "" {
			body = app.MsgNoResults
		} else {
			body = render.Header(len(m.list.Items()), state.Page, pages) + "\n" + m.list.View()
		}
	}

	var status string
	switch {
	case m.errMsg != "":
		status = errorStyle.Render(m.errMsg)
	case m.loading:
		status = statusStyle.Render(m.status)
	}

	help := helpStyle.Render(helpText(m.mode))
	return lipgloss.JoinVertical(lipgloss.Left, header, status, body, help)
}

func describeCriteria(c sortfilter.Criteria) string {
	switch c.Field {
	case sortfilter.FieldGenre:
		return fmt.Sprintf("genre: %q", c.Genre)
	case sortfilter.FieldLanguage:
		return fmt.Sprintf("language: %q", c.Language)
	default:
		return fmt.Sprintf("sort: %s %s", c.Field, c.Direction)
	}
}

func helpText(mode viewMode) string {
	switch mode {
	case modeDetails:
		return "esc back | f favorite | q quit"
	case modeFavorites:
		return "esc back | q quit"
	default:
		return "Up/Down navigate | enter details | f favorite | s sort | o order | g/l genre/language | c clear | n/p page | v favorites | q quit"
	}
}

// Browse runs the interactive browser starting with a search for query.
// Enrichment progress received on progress is shown while results load;
// progress may be nil.
func Browse(ctx context.Context, session Session, query string, progress <-chan enrich.Progress) error {
	if strings.TrimSpace(query) == "" {
		return omdb.ErrEmptyQuery
	}

	m := newModel(ctx, session, query, progress)
	finalModel, err := runProgram(m)
	if err != nil {
		return err
	}

	if _, ok := finalModel.(*model); !ok {
		return fmt.Errorf("unexpected program result")
	}
	return nil
}
