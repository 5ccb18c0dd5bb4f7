// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 2:12:31 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/httpclient"
	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/parkapi"
	"github.com/ternarybob/parkguide/internal/services/assets"
	"github.com/ternarybob/parkguide/internal/services/guide"
	"github.com/ternarybob/parkguide/internal/services/maps"
	"github.com/ternarybob/parkguide/internal/services/sampler"
	"github.com/ternarybob/parkguide/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	ParkClient  *parkapi.Client
	Downloader  *assets.Downloader
	MapRenderer interfaces.MapRenderer
	Assembler   *guide.Assembler
	Pipeline    *guide.Pipeline
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Storage.Badger.Enabled {
		if err := app.initDatabase(); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Debug().
		Str("api", cfg.API.BaseURL).
		Bool("cache_enabled", cfg.Storage.Badger.Enabled).
		Bool("offline", cfg.Guide.Offline).
		Strs("formats", cfg.Guide.Formats).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the record cache (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
	return nil
}

// initServices wires the pipeline in dependency order
func (a *App) initServices() error {
	cfg := a.Config

	// API and image requests share one limiter and one client
	limiter := rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateLimit)
	httpClient := httpclient.NewHTTPClientWithUserAgent(cfg.API.RequestTimeout, cfg.API.UserAgent)

	a.ParkClient = parkapi.NewClient(
		parkapi.WithBaseURL(cfg.API.BaseURL),
		parkapi.WithHTTPClient(httpClient),
		parkapi.WithUserAgent(cfg.API.UserAgent),
		parkapi.WithLimiter(limiter),
		parkapi.WithLogger(a.Logger),
	)

	a.Downloader = assets.NewDownloader(
		cfg.Assets.Dir,
		assets.WithHTTPClient(httpClient),
		assets.WithUserAgent(cfg.API.UserAgent),
		assets.WithLimiter(limiter),
		assets.WithLogger(a.Logger),
	)

	renderer, err := maps.NewRenderer(cfg.Assets.Dir, cfg.Map, cfg.API.UserAgent, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create map renderer: %w", err)
	}
	a.MapRenderer = renderer
	if cfg.Guide.Offline {
		a.MapRenderer = maps.ReuseExisting(renderer, cfg.Assets.Dir)
	}

	a.Assembler = guide.NewAssembler(cfg.Assets.Dir, cfg.Guide.GallerySize, a.MapRenderer, a.Logger)

	writers, err := guide.NewWriters(cfg.Guide.Formats, a.Logger)
	if err != nil {
		return err
	}

	var source interfaces.ParkSource = a.ParkClient
	var store interfaces.ParkStorage
	if a.StorageManager != nil {
		store = a.StorageManager.ParkStorage()
	}
	if cfg.Guide.Offline {
		if store == nil {
			return fmt.Errorf("offline mode needs the record cache (storage.badger.enabled)")
		}
		source = store.ParkSource()
	}

	a.Pipeline = guide.NewPipeline(
		guide.PipelineConfig{
			Title:       cfg.Guide.Title,
			ParkCount:   cfg.Guide.ParkCount,
			GallerySize: cfg.Guide.GallerySize,
			Output:      cfg.Guide.Output,
			Offline:     cfg.Guide.Offline,
		},
		source,
		store,
		a.Downloader,
		a.Assembler,
		writers,
		sampler.NewRand(cfg.Guide.Seed),
		a.Logger,
	)
	return nil
}

// Run builds the guide once
func (a *App) Run(ctx context.Context) (*guide.Result, error) {
	return a.Pipeline.Run(ctx)
}

// Close releases the record cache
func (a *App) Close() error {
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
		a.Logger.Debug().Msg("Storage closed")
	}
	return nil
}
