package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/favorites"
	"github.com/lepinkainen/marquee/internal/fileutil"
	"github.com/lepinkainen/marquee/internal/render"
)

// FavoritesCmd represents the favorites command and its subcommands
type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List favorite movies"`
	Toggle FavoritesToggleCmd `cmd:"" help:"Add a movie to favorites, or remove it if already there"`
}

// FavoritesListCmd represents the favorites list command
type FavoritesListCmd struct {
	Format string `short:"F" help:"Output format: text, json or yaml" default:"text"`
	Output string `short:"o" help:"Also write favorites to this file (.yaml or .yml for YAML, JSON otherwise)"`
}

// FavoritesToggleCmd represents the favorites toggle command
type FavoritesToggleCmd struct {
	ID string `arg:"" name:"imdb-id" help:"IMDb ID of the movie, e.g. tt0078748"`
}

func (l *FavoritesListCmd) Run() error {
	format, err := fileutil.ParseFormat(l.Format)
	if err != nil {
		return err
	}

	sess := openSession()
	defer sess.Close()

	entries := sess.app.ListFavorites()

	if l.Output != "" {
		if err := writeFavorites(entries, l.Output); err != nil {
			return err
		}
	}

	if format == fileutil.FormatText {
		_, err := fmt.Fprint(stdout, render.Favorites(entries))
		return err
	}
	return fileutil.Encode(stdout, entries, format)
}

func writeFavorites(entries []favorites.Entry, path string) error {
	write := fileutil.WriteJSONFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		write = fileutil.WriteYAMLFile
	}

	if _, err := write(entries, path, true); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}

func (t *FavoritesToggleCmd) Run(ctx context.Context) error {
	id := strings.TrimSpace(t.ID)

	sess := openSession()
	defer sess.Close()

	var entry favorites.Entry
	if sess.app.IsFavorite(id) {
		// Removal needs no lookup; keep the stored title for the message.
		for _, e := range sess.app.ListFavorites() {
			if e.ImdbID == id {
				entry = e
				break
			}
		}
	} else {
		detail, err := sess.app.LoadDetails(ctx, id)
		if err != nil {
			return newUserError(app.DetailsMessage(err), err)
		}
		entry = app.FavoriteEntry(*detail)
	}

	favorited := sess.app.ToggleFavorite(entry)

	verb := "Removed from"
	if favorited {
		verb = "Added to"
	}
	_, err := fmt.Fprintf(stdout, "%s %s favorites: %s (%s)\n", render.Mark(favorited), verb, entry.Title, entry.Year)
	return err
}
