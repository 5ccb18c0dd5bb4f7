package maps

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/models"
)

func newTileServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	tile := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			tile.Set(x, y, color.RGBA{R: 200, G: 220, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, tile))

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(tileURL, cacheDir string) common.MapConfig {
	cfg := common.NewDefaultConfig().Map
	cfg.TileURL = tileURL
	cfg.TileCacheDir = cacheDir
	return cfg
}

func TestRender_WritesMapPNG(t *testing.T) {
	srv, hits := newTileServer(t)
	dir := t.TempDir()

	r, err := NewRenderer(dir, testConfig(srv.URL+"/{z}/{x}/{y}.png", t.TempDir()), "parkguide/test", arbor.NewNoOpLogger())
	require.NoError(t, err)

	path, err := r.Render(context.Background(), "Itasca", models.Location{Latitude: 47.19, Longitude: -95.17})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Itasca_map.png"), path)
	assert.Greater(t, atomic.LoadInt32(hits), int32(0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 420, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestRender_InvalidCoordinates(t *testing.T) {
	srv, hits := newTileServer(t)
	dir := t.TempDir()

	r, err := NewRenderer(dir, testConfig(srv.URL+"/{z}/{x}/{y}.png", t.TempDir()), "", nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		location models.Location
	}{
		{"latitude too high", models.Location{Latitude: 91, Longitude: 0}},
		{"latitude too low", models.Location{Latitude: -90.5, Longitude: 0}},
		{"longitude out of range", models.Location{Latitude: 45, Longitude: 181}},
		{"not a number", models.Location{Latitude: math.NaN(), Longitude: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(context.Background(), "Nowhere", tt.location)
			assert.Error(t, err)
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	assert.NoFileExists(t, filepath.Join(dir, "Nowhere_map.png"))
}

func TestNewRenderer_InvalidColor(t *testing.T) {
	cfg := testConfig("", "")
	cfg.MarkerColor = "violet"

	_, err := NewRenderer(t.TempDir(), cfg, "", nil)
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#9400d3", color.RGBA{R: 0x94, G: 0x00, B: 0xd3, A: 0xff}},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"000000", color.RGBA{A: 0xff}},
	}
	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTileProvider_Default(t *testing.T) {
	r, err := NewRenderer(t.TempDir(), testConfig("", ""), "", nil)
	require.NoError(t, err)

	assert.Contains(t, r.tileProvider().URLPattern, "openstreetmap")
}

type countingRenderer struct {
	calls int
	path  string
}

func (c *countingRenderer) Render(ctx context.Context, name string, location models.Location) (string, error) {
	c.calls++
	return c.path, nil
}

func TestReuseExisting(t *testing.T) {
	dir := t.TempDir()
	next := &countingRenderer{path: "rendered.png"}
	r := ReuseExisting(next, dir)

	path, err := r.Render(context.Background(), "Itasca", models.Location{})
	require.NoError(t, err)
	assert.Equal(t, "rendered.png", path)
	assert.Equal(t, 1, next.calls)

	existing := filepath.Join(dir, "Itasca_map.png")
	require.NoError(t, os.WriteFile(existing, []byte("png"), 0644))

	path, err = r.Render(context.Background(), "Itasca", models.Location{})
	require.NoError(t, err)
	assert.Equal(t, existing, path)
	assert.Equal(t, 1, next.calls)
}
