package interfaces

import (
	"context"

	"github.com/ternarybob/parkguide/internal/models"
)

// ParkSource provides the park catalog and detail records
type ParkSource interface {
	// GetCatalog returns every park the source knows about
	GetCatalog(ctx context.Context) (models.Catalog, error)

	// GetPark returns the full record for one park identifier
	GetPark(ctx context.Context, id string) (*models.ParkDetail, error)
}
