package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/lepinkainen/marquee/internal/fileutil"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/poster"
	"github.com/lepinkainen/marquee/internal/render"
)

var newPosterDownloader = func(overwrite bool) *poster.Downloader {
	return poster.NewDownloader(poster.WithOverwrite(overwrite))
}

// DetailsCmd represents the details command
type DetailsCmd struct {
	ID              string `arg:"" name:"imdb-id" help:"IMDb ID of the movie, e.g. tt0078748"`
	Format          string `short:"F" help:"Output format: text, json or yaml" default:"text"`
	PosterDir       string `help:"Download the poster into this directory (overrides posters.dir)"`
	OverwritePoster bool   `help:"Re-download the poster even if it already exists"`
}

type detailOutput struct {
	omdb.MovieDetail `yaml:",inline"`
	Favorite         bool   `json:"favorite" yaml:"favorite"`
	PosterPath       string `json:"posterPath,omitempty" yaml:"poster_path,omitempty"`
}

func (d *DetailsCmd) Run(ctx context.Context) error {
	format, err := fileutil.ParseFormat(d.Format)
	if err != nil {
		return err
	}

	sess := openSession()
	defer sess.Close()

	detail, err := sess.app.LoadDetails(ctx, d.ID)
	if err != nil {
		if errors.Is(err, omdb.ErrEmptyID) {
			return err
		}
		return newUserError(app.DetailsMessage(err), err)
	}

	out := detailOutput{
		MovieDetail: *detail,
		Favorite:    sess.app.IsFavorite(detail.ImdbID),
	}

	dir := d.PosterDir
	if dir == "" {
		dir = config.PosterDir()
	}
	if dir != "" {
		out.PosterPath = savePoster(ctx, newPosterDownloader(d.OverwritePoster), *detail, dir)
	}

	if format == fileutil.FormatText {
		if _, err := fmt.Fprint(stdout, render.Detail(out.MovieDetail, out.Favorite)); err != nil {
			return err
		}
		if out.PosterPath != "" {
			_, err = fmt.Fprintf(stdout, "\nPoster: %s\n", out.PosterPath)
		}
		return err
	}
	return fileutil.Encode(stdout, out, format)
}

// savePoster stores the poster of m in dir and returns its path. Failures
// are logged; the detail output does not depend on the poster.
func savePoster(ctx context.Context, downloader *poster.Downloader, m omdb.MovieDetail, dir string) string {
	filename := poster.Filename(m.Title, m.Year, m.ImdbID)

	path, downloaded, err := downloader.Save(ctx, m.Poster, dir, filename)
	switch {
	case errors.Is(err, poster.ErrNoPoster):
		slog.Info("No poster available", "imdb_id", m.ImdbID)
		return ""
	case err != nil:
		slog.Warn("Failed to save poster", "imdb_id", m.ImdbID, "error", err)
		return ""
	case downloaded:
		slog.Info("Downloaded poster", "imdb_id", m.ImdbID, "path", path)
	}
	return path
}
