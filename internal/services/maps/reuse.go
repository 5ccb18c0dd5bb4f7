package maps

import (
	"context"
	"os"

	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
	"github.com/ternarybob/parkguide/internal/services/assets"
)

// ReuseExisting returns a renderer that skips parks whose map is already on disk
// in dir. Used for offline runs.
func ReuseExisting(next interfaces.MapRenderer, dir string) interfaces.MapRenderer {
	return &reuseRenderer{next: next, dir: dir}
}

type reuseRenderer struct {
	next interfaces.MapRenderer
	dir  string
}

func (r *reuseRenderer) Render(ctx context.Context, name string, location models.Location) (string, error) {
	path := assets.MapPath(r.dir, name)
	if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
		return path, nil
	}
	return r.next.Render(ctx, name, location)
}
