package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	config := &common.BadgerConfig{
		Enabled: true,
		Path:    filepath.Join(t.TempDir(), "cache"),
	}
	manager, err := NewManager(arbor.NewNoOpLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestParkStorage_Catalog(t *testing.T) {
	storage := newTestManager(t).ParkStorage()
	ctx := context.Background()

	_, err := storage.GetCatalog(ctx)
	assert.True(t, errors.Is(err, interfaces.ErrNotCached))

	catalog := models.Catalog{
		{Name: "Itasca", ID: "1"},
		{Name: "Gooseberry Falls", ID: "2"},
	}
	require.NoError(t, storage.SaveCatalog(ctx, catalog))

	got, err := storage.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, got)

	// Saving again replaces the catalog
	require.NoError(t, storage.SaveCatalog(ctx, catalog[:1]))
	got, err = storage.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParkStorage_Park(t *testing.T) {
	storage := newTestManager(t).ParkStorage()
	ctx := context.Background()

	_, err := storage.GetPark(ctx, "1")
	assert.True(t, errors.Is(err, interfaces.ErrNotCached))

	info := orderedmap.New[string, string]()
	info.Set("Trails", "Ten miles")
	info.Set("Camping", "Sites available")
	info.Set("Access", "Year round")

	park := &models.ParkDetail{
		ID:          "1",
		Name:        "Itasca",
		Images:      []string{"https://example.test/0.jpg", "https://example.test/1.jpg"},
		Highlights:  []string{"Headwaters"},
		Information: info,
		Address:     "36750 Main Park Dr",
		URL:         "https://example.test/itasca",
		Location:    models.Location{Latitude: 47.19, Longitude: -95.17},
	}
	require.NoError(t, storage.SavePark(ctx, "1", park))

	got, err := storage.GetPark(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, park.Name, got.Name)
	assert.Equal(t, park.Images, got.Images)
	assert.Equal(t, park.Location, got.Location)

	// Category order survives the round trip
	var categories []string
	for _, section := range got.Categories() {
		categories = append(categories, section.Category)
	}
	assert.Equal(t, []string{"Trails", "Camping", "Access"}, categories)

	// Upsert by id
	park.Name = "Itasca State Park"
	require.NoError(t, storage.SavePark(ctx, "1", park))
	got, err = storage.GetPark(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Itasca State Park", got.Name)

	records, err := storage.(*ParkStorage).FindByName(ctx, "Itasca State Park")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)
}

func TestParkStorage_ParkSource(t *testing.T) {
	storage := newTestManager(t).ParkStorage()
	ctx := context.Background()

	require.NoError(t, storage.SaveCatalog(ctx, models.Catalog{{Name: "Itasca", ID: "1"}}))
	require.NoError(t, storage.SavePark(ctx, "1", &models.ParkDetail{Name: "Itasca"}))

	source := storage.ParkSource()
	catalog, err := source.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, catalog.IDs())

	park, err := source.GetPark(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Itasca", park.Name)

	_, err = source.GetPark(ctx, "2")
	assert.True(t, errors.Is(err, interfaces.ErrNotCached))
}

func TestNewManager_ResetOnStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	config := &common.BadgerConfig{Enabled: true, Path: path}
	ctx := context.Background()

	manager, err := NewManager(arbor.NewNoOpLogger(), config)
	require.NoError(t, err)
	require.NoError(t, manager.ParkStorage().SaveCatalog(ctx, models.Catalog{{Name: "Itasca", ID: "1"}}))
	require.NoError(t, manager.Close())

	config.ResetOnStartup = true
	manager, err = NewManager(arbor.NewNoOpLogger(), config)
	require.NoError(t, err)
	defer manager.Close()

	_, err = manager.ParkStorage().GetCatalog(ctx)
	assert.True(t, errors.Is(err, interfaces.ErrNotCached))
}
