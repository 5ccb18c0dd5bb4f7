package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"sync"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/require"
	arbormodels "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ternarybob/parkguide/internal/models"
	"github.com/ternarybob/parkguide/internal/services/assets"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 60, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(48, 24), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(42, 30)))
	return buf.Bytes()
}

// writeParkImages writes {name}_0.jpg .. {name}_{count-1}.jpg into dir
func writeParkImages(t *testing.T, dir, name string, count int) {
	t.Helper()
	data := jpegBytes(t)
	for i := 0; i < count; i++ {
		require.NoError(t, os.WriteFile(assets.ImagePath(dir, name, i), data, 0644))
	}
}

func samplePark(name string, images int) *models.ParkDetail {
	info := orderedmap.New[string, string]()
	info.Set("Camping", "Drive-in sites &amp; cabins")
	info.Set("Trails", "<p>Hiking</p><p>Skiing</p>")
	info.Set("Boating", "Canoe rentals on the lake")

	urls := make([]string, images)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.test/%s/%d.jpg", name, i)
	}

	return &models.ParkDetail{
		Name:        name,
		Images:      urls,
		Highlights:  []string{"Mississippi headwaters", "Old-growth pines", "Wilderness Drive"},
		Information: info,
		Address:     "36750 Main Park Dr, Park Rapids, MN 56470",
		URL:         "https://www.dnr.state.mn.us/state_parks/itasca/index.html",
		Location:    models.Location{Latitude: 47.19, Longitude: -95.17},
	}
}

// fakeMaps writes a small PNG instead of fetching tiles
type fakeMaps struct {
	dir   string
	data  []byte
	calls []string
	err   error
}

func newFakeMaps(t *testing.T, dir string) *fakeMaps {
	return &fakeMaps{dir: dir, data: pngBytes(t)}
}

func (f *fakeMaps) Render(ctx context.Context, name string, location models.Location) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	path := assets.MapPath(f.dir, name)
	if err := os.WriteFile(path, f.data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// recordingWriter captures every save
type recordingWriter struct {
	writes []string
	blocks []Block
	err    error
}

func (w *recordingWriter) Extension() string {
	return ".rec"
}

func (w *recordingWriter) Write(doc *Document, path string) error {
	w.writes = append(w.writes, path)
	w.blocks = append([]Block(nil), doc.Blocks()...)
	return w.err
}

// logRecorder is an arbor writer that keeps every logged message
type logRecorder struct {
	mu     sync.Mutex
	events []arbormodels.LogEvent
}

var _ writers.IWriter = (*logRecorder)(nil)

func (r *logRecorder) WithLevel(level log.Level) writers.IWriter {
	return r
}

func (r *logRecorder) Write(p []byte) (int, error) {
	var event arbormodels.LogEvent
	if err := json.Unmarshal(p, &event); err != nil {
		return 0, err
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return len(p), nil
}

func (r *logRecorder) GetFilePath() string {
	return ""
}

func (r *logRecorder) Close() error {
	return nil
}

func (r *logRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Message)
	}
	return out
}
