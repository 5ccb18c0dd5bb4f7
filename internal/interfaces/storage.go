// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 9:40:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/parkguide/internal/models"
)

// ErrNotCached is returned when a record has never been stored
var ErrNotCached = errors.New("record not cached")

// ParkStorage persists fetched park records between runs
type ParkStorage interface {
	// SaveCatalog replaces the stored catalog
	SaveCatalog(ctx context.Context, catalog models.Catalog) error

	// GetCatalog returns the stored catalog or ErrNotCached
	GetCatalog(ctx context.Context) (models.Catalog, error)

	// SavePark inserts or updates a detail record under its identifier
	SavePark(ctx context.Context, id string, park *models.ParkDetail) error

	// GetPark returns a stored detail record or ErrNotCached
	GetPark(ctx context.Context, id string) (*models.ParkDetail, error)

	// ParkSource exposes the stored records through the same contract as the API
	ParkSource() ParkSource
}

// StorageManager owns the storage backends
type StorageManager interface {
	ParkStorage() ParkStorage
	Close() error
}
