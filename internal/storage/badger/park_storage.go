package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
)

const catalogKey = "catalog"

// ParkStorage implements the ParkStorage interface for Badger
type ParkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewParkStorage creates a new ParkStorage instance
func NewParkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ParkStorage {
	return &ParkStorage{
		db:     db,
		logger: logger,
	}
}

// SaveCatalog replaces the stored catalog
func (s *ParkStorage) SaveCatalog(ctx context.Context, catalog models.Catalog) error {
	record := models.CachedCatalog{
		Key:       catalogKey,
		Entries:   catalog,
		FetchedAt: time.Now(),
	}
	if err := s.db.Store().Upsert(catalogKey, &record); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	s.logger.Debug().Int("parks", len(catalog)).Msg("Park catalog cached")
	return nil
}

// GetCatalog returns the stored catalog
func (s *ParkStorage) GetCatalog(ctx context.Context) (models.Catalog, error) {
	var record models.CachedCatalog
	err := s.db.Store().Get(catalogKey, &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("park catalog: %w", interfaces.ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	if len(record.Entries) == 0 {
		return nil, fmt.Errorf("park catalog is empty: %w", interfaces.ErrNotCached)
	}
	return record.Entries, nil
}

// SavePark inserts or updates the record stored under id
func (s *ParkStorage) SavePark(ctx context.Context, id string, park *models.ParkDetail) error {
	if park == nil {
		return fmt.Errorf("park is nil")
	}
	raw, err := json.Marshal(park)
	if err != nil {
		return fmt.Errorf("failed to encode park %s: %w", id, err)
	}

	record := models.CachedPark{
		ID:        id,
		Name:      park.Name,
		Raw:       raw,
		FetchedAt: time.Now(),
	}
	if err := s.db.Store().Upsert(id, &record); err != nil {
		return fmt.Errorf("failed to save park %s: %w", id, err)
	}

	s.logger.Debug().Str("park_id", id).Str("park", park.Name).Msg("Park record cached")
	return nil
}

// GetPark returns the record stored under id
func (s *ParkStorage) GetPark(ctx context.Context, id string) (*models.ParkDetail, error) {
	var record models.CachedPark
	err := s.db.Store().Get(id, &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("park %s: %w", id, interfaces.ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get park %s: %w", id, err)
	}

	var park models.ParkDetail
	if err := json.Unmarshal(record.Raw, &park); err != nil {
		return nil, fmt.Errorf("failed to decode cached park %s: %w", id, err)
	}
	return &park, nil
}

// FindByName returns cached records whose name matches exactly
func (s *ParkStorage) FindByName(ctx context.Context, name string) ([]models.CachedPark, error) {
	var records []models.CachedPark
	if err := s.db.Store().Find(&records, badgerhold.Where("Name").Eq(name).Index("Name")); err != nil {
		return nil, fmt.Errorf("failed to find parks named %s: %w", name, err)
	}
	return records, nil
}

// ParkSource serves the cached records to the pipeline
func (s *ParkStorage) ParkSource() interfaces.ParkSource {
	return s
}
