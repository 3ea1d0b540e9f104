package cmd

import (
	"context"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/enrich"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/tui"
)

var runBrowser = tui.Browse

// BrowseCmd represents the browse command
type BrowseCmd struct {
	Query []string `arg:"" help:"Movie title to search for"`
}

func (b *BrowseCmd) Run(ctx context.Context) error {
	query := joinQuery(b.Query)
	if query == "" {
		return newUserError(app.MsgEmptyQuery, omdb.ErrEmptyQuery)
	}

	// The browser drains progress while a search runs; updates that find the
	// buffer full are dropped.
	progress := make(chan enrich.Progress, 16)
	report := func(p enrich.Progress) {
		select {
		case progress <- p:
		default:
		}
	}

	sess := openSession(app.WithProgress(report))
	defer sess.Close()

	return runBrowser(ctx, sess.app, query, progress)
}
