package interfaces

import (
	"context"

	"github.com/ternarybob/parkguide/internal/models"
)

// AssetDownloader fetches the images referenced by a detail record
type AssetDownloader interface {
	// Download writes each URL to a name-indexed file and returns the paths in URL order
	Download(ctx context.Context, urls []string, name string) ([]string, error)
}

// MapRenderer renders a static map image for one park
type MapRenderer interface {
	// Render writes the map image and returns its path
	Render(ctx context.Context, name string, location models.Location) (string, error)
}
