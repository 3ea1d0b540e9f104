// Package poster downloads movie posters and stores them as resized JPEGs.
package poster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/marquee/internal/fileutil"
	"github.com/lepinkainen/marquee/internal/omdb"
)

const defaultMaxWidth = 600

// ErrNoPoster is returned when a movie has no poster URL.
var ErrNoPoster = errors.New("no poster available")

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Downloader fetches poster images.
type Downloader struct {
	httpClient HTTPDoer
	maxWidth   int
	overwrite  bool
}

// Option is a functional option for configuring the Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(d *Downloader) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithMaxWidth sets the width images are shrunk to. Smaller images are kept as is.
func WithMaxWidth(width int) Option {
	return func(d *Downloader) {
		if width > 0 {
			d.maxWidth = width
		}
	}
}

// WithOverwrite re-downloads posters that already exist on disk.
func WithOverwrite(overwrite bool) Option {
	return func(d *Downloader) {
		d.overwrite = overwrite
	}
}

// NewDownloader creates a poster downloader.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxWidth:   defaultMaxWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Filename returns the standard poster filename for a movie.
// Returns: "Title (Year) - tt1234567.jpg"
func Filename(title, year, imdbID string) string {
	name := SanitizeTitle(title)
	if year != "" && year != omdb.NotAvailable {
		name += " (" + year + ")"
	}
	return name + " - " + imdbID + ".jpg"
}

// SanitizeTitle makes a title safe to use in a filename.
func SanitizeTitle(title string) string {
	title = fileutil.SanitizeFilename(title)
	if title == "" {
		return "untitled"
	}
	return title
}

// Save downloads posterURL into dir under filename, resizing it to the
// configured width. It returns the local path and whether a download
// happened. Existing files are kept unless overwrite is set.
func (d *Downloader) Save(ctx context.Context, posterURL, dir, filename string) (string, bool, error) {
	posterURL = strings.TrimSpace(posterURL)
	if posterURL == "" || posterURL == omdb.NotAvailable {
		return "", false, ErrNoPoster
	}

	savePath := filepath.Join(dir, filename)
	if fileutil.FileExists(savePath) && !d.overwrite {
		slog.Debug("Poster already exists, skipping download", "path", savePath)
		return savePath, false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create poster request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to download poster: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("unexpected status %d downloading poster from %s", resp.StatusCode, posterURL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return "", false, fmt.Errorf("failed to decode poster: %w", err)
	}

	if img.Bounds().Dx() > d.maxWidth {
		img = imaging.Resize(img, d.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create poster directory: %w", err)
	}

	if err := imaging.Save(img, savePath, imaging.JPEGQuality(85)); err != nil {
		return "", false, fmt.Errorf("failed to save poster: %w", err)
	}

	slog.Info("Downloaded poster", "path", savePath)
	return savePath, true, nil
}
