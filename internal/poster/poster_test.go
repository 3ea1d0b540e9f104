package poster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/marquee/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngServer(t *testing.T, width, height int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	hits := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server, hits
}

func TestSaveResizesWidePoster(t *testing.T) {
	env := testutil.NewTestEnv(t)
	server, _ := pngServer(t, 80, 120)

	d := NewDownloader(WithMaxWidth(40))
	path, downloaded, err := d.Save(context.Background(), server.URL+"/poster.png", env.Path("posters"), "Alien (1979) - tt0078748.jpg")
	require.NoError(t, err)
	assert.True(t, downloaded)
	assert.Equal(t, env.Path("posters", "Alien (1979) - tt0078748.jpg"), path)

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 40, saved.Bounds().Dx())
	assert.Equal(t, 60, saved.Bounds().Dy())
}

func TestSaveKeepsSmallPoster(t *testing.T) {
	env := testutil.NewTestEnv(t)
	server, _ := pngServer(t, 30, 45)

	path, _, err := NewDownloader().Save(context.Background(), server.URL+"/small.png", env.RootDir(), "small.jpg")
	require.NoError(t, err)

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 30, saved.Bounds().Dx())
}

func TestSaveSkipsExistingUnlessOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	server, hits := pngServer(t, 10, 10)

	_, downloaded, err := NewDownloader().Save(context.Background(), server.URL+"/p.png", env.RootDir(), "p.jpg")
	require.NoError(t, err)
	require.True(t, downloaded)

	_, downloaded, err = NewDownloader().Save(context.Background(), server.URL+"/p.png", env.RootDir(), "p.jpg")
	require.NoError(t, err)
	assert.False(t, downloaded)
	assert.Equal(t, int32(1), hits.Load())

	_, downloaded, err = NewDownloader(WithOverwrite(true)).Save(context.Background(), server.URL+"/p.png", env.RootDir(), "p.jpg")
	require.NoError(t, err)
	assert.True(t, downloaded)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSaveWithoutPoster(t *testing.T) {
	env := testutil.NewTestEnv(t)
	for _, url := range []string{"", "N/A", "  "} {
		_, downloaded, err := NewDownloader().Save(context.Background(), url, env.RootDir(), "x.jpg")
		assert.ErrorIs(t, err, ErrNoPoster)
		assert.False(t, downloaded)
	}
	assert.Empty(t, env.ListFiles("."))
}

func TestSaveHTTPError(t *testing.T) {
	env := testutil.NewTestEnv(t)
	server, _ := pngServer(t, 10, 10)

	_, _, err := NewDownloader().Save(context.Background(), server.URL+"/missing.png", env.RootDir(), "x.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.False(t, env.FileExists("x.jpg"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Alien (1979) - tt0078748.jpg", Filename("Alien", "1979", "tt0078748"))
	assert.Equal(t, "Mission - Impossible - tt0117060.jpg", Filename("Mission: Impossible", "N/A", "tt0117060"))
	assert.Equal(t, "untitled - tt1.jpg", Filename("", "", "tt1"))
}
