package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/enrich"
	"github.com/lepinkainen/marquee/internal/fileutil"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/render"
	"github.com/lepinkainen/marquee/internal/sortfilter"
)

// SearchCmd represents the search command
type SearchCmd struct {
	Query      []string `arg:"" help:"Movie title to search for"`
	Page       int      `short:"p" help:"Result page to show" default:"1"`
	Sort       string   `short:"s" help:"Sort field: title, year, boxoffice, rating, genre, language" default:"title"`
	Order      string   `help:"Sort order: asc or desc" default:"asc"`
	Genre      string   `short:"g" help:"Only show movies whose genre contains this text"`
	Language   string   `short:"l" help:"Only show movies whose language contains this text"`
	Format     string   `short:"F" help:"Output format: text, json or yaml" default:"text"`
	JSONOutput string   `help:"Also write the results to this JSON file"`
}

type cardOutput struct {
	omdb.MovieDetail `yaml:",inline"`
	Favorite         bool `json:"favorite" yaml:"favorite"`
}

type searchOutput struct {
	Query        string       `json:"query" yaml:"query"`
	Page         int          `json:"page" yaml:"page"`
	Pages        int          `json:"pages" yaml:"pages"`
	TotalResults int          `json:"totalResults" yaml:"total_results"`
	Sort         string       `json:"sort" yaml:"sort"`
	Order        string       `json:"order" yaml:"order"`
	Movies       []cardOutput `json:"movies" yaml:"movies"`
}

// criteria turns the sort and filter flags into sort/filter criteria. A genre
// or language filter takes precedence over the sort field.
func (s *SearchCmd) criteria() (sortfilter.Criteria, error) {
	field, err := sortfilter.ParseField(s.Sort)
	if err != nil {
		return sortfilter.Criteria{}, err
	}
	direction, err := sortfilter.ParseDirection(s.Order)
	if err != nil {
		return sortfilter.Criteria{}, err
	}

	c := sortfilter.Criteria{Field: field, Direction: direction}
	switch {
	case s.Genre != "":
		c.Field = sortfilter.FieldGenre
		c.Genre = s.Genre
	case s.Language != "":
		c.Field = sortfilter.FieldLanguage
		c.Language = s.Language
	}
	return c, nil
}

func (s *SearchCmd) Run(ctx context.Context) error {
	format, err := fileutil.ParseFormat(s.Format)
	if err != nil {
		return err
	}
	criteria, err := s.criteria()
	if err != nil {
		return err
	}

	query := joinQuery(s.Query)
	if query == "" {
		return newUserError(app.MsgEmptyQuery, omdb.ErrEmptyQuery)
	}

	sess := openSession(app.WithProgress(logProgress))
	defer sess.Close()

	if _, err := sess.app.Search(ctx, query, s.Page); err != nil {
		return newUserError(app.UserMessage(err), err)
	}

	cards := sess.app.ApplySortFilter(criteria)
	state := sess.app.State()
	pages := sess.app.PageCount()

	out := searchOutput{
		Query:        state.Query,
		Page:         state.Page,
		Pages:        pages,
		TotalResults: state.TotalResults,
		Sort:         string(state.Criteria.Field),
		Order:        string(state.Criteria.Direction),
		Movies:       make([]cardOutput, len(cards)),
	}
	for i, c := range cards {
		out.Movies[i] = cardOutput{MovieDetail: c.MovieDetail, Favorite: c.Favorite}
	}

	if s.JSONOutput != "" {
		if _, err := fileutil.WriteJSONFile(out, s.JSONOutput, true); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}

	if format == fileutil.FormatText {
		_, err := fmt.Fprint(stdout, render.Results(cards, state.Page, pages))
		return err
	}
	return fileutil.Encode(stdout, out, format)
}

func logProgress(p enrich.Progress) {
	slog.Debug(p.Stage, "current", p.Current, "total", p.Total)
}
