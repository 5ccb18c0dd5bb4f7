// Package maps renders the static location map shown for each park.
package maps

import (
	"context"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"os"
	"strconv"
	"strings"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
	"github.com/ternarybob/parkguide/internal/services/assets"
)

// Renderer draws a single-marker OpenStreetMap image centered on a park
type Renderer struct {
	dir         string
	config      common.MapConfig
	userAgent   string
	markerColor color.RGBA
	logger      arbor.ILogger
}

var _ interfaces.MapRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer writing maps into dir
func NewRenderer(dir string, config common.MapConfig, userAgent string, logger arbor.ILogger) (*Renderer, error) {
	markerColor, err := parseHexColor(config.MarkerColor)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	return &Renderer{
		dir:         dir,
		config:      config,
		userAgent:   userAgent,
		markerColor: markerColor,
		logger:      logger,
	}, nil
}

// Render writes {dir}/{name}_map.png and returns its path
func (r *Renderer) Render(ctx context.Context, name string, location models.Location) (string, error) {
	if err := validateLocation(location); err != nil {
		return "", fmt.Errorf("cannot render map for %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pos := s2.LatLngFromDegrees(location.Latitude, location.Longitude)

	mapCtx := sm.NewContext()
	mapCtx.SetSize(r.config.Width, r.config.Height)
	mapCtx.SetZoom(r.config.Zoom)
	mapCtx.SetCenter(pos)
	mapCtx.SetTileProvider(r.tileProvider())
	if r.userAgent != "" {
		mapCtx.SetUserAgent(r.userAgent)
	}
	if r.config.TileCacheDir != "" {
		mapCtx.SetCache(sm.NewTileCache(r.config.TileCacheDir, 0777))
	}
	mapCtx.AddObject(sm.NewMarker(pos, r.markerColor, float64(r.config.MarkerSize)))

	img, err := mapCtx.Render()
	if err != nil {
		return "", fmt.Errorf("failed to render map for %s: %w", name, err)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create asset directory %s: %w", r.dir, err)
	}

	path := assets.MapPath(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create map file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode map %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close map file: %w", err)
	}

	r.logger.Debug().
		Str("park", name).
		Str("path", path).
		Msg("Park map rendered")
	return path, nil
}

// tileProvider returns OpenStreetMap unless a custom {z}/{x}/{y} URL is configured
func (r *Renderer) tileProvider() *sm.TileProvider {
	if r.config.TileURL == "" {
		return sm.NewTileProviderOpenStreetMaps()
	}
	pattern := strings.NewReplacer("{z}", "%[2]d", "{x}", "%[3]d", "{y}", "%[4]d").Replace(r.config.TileURL)
	return &sm.TileProvider{
		Name:        "custom",
		Attribution: "Maps and Data (c) openstreetmap.org and contributors, ODbL",
		TileSize:    256,
		URLPattern:  pattern,
		Shards:      []string{},
	}
}

func validateLocation(l models.Location) error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return fmt.Errorf("coordinate is not a number")
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", l.Longitude)
	}
	return nil
}

// parseHexColor accepts #rgb and #rrggbb
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid marker color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid marker color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
