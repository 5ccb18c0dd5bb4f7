package guide

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
	"github.com/ternarybob/parkguide/internal/services/sampler"
)

// GalleryBoundsError is returned when a park has fewer images than the
// header plus the configured gallery
type GalleryBoundsError struct {
	Park      string
	Available int
	Required  int
}

func (e *GalleryBoundsError) Error() string {
	return fmt.Sprintf("park %s has %d images, %d required (header plus gallery)", e.Park, e.Available, e.Required)
}

// PipelineConfig is the part of the configuration a run needs
type PipelineConfig struct {
	Title       string
	ParkCount   int
	GallerySize int
	Output      string // basename, writers add the extension
	Offline     bool   // images are expected on disk already
}

// Pipeline builds one guide: catalog, sample, then per park detail, images and
// section, and finally a single save.
type Pipeline struct {
	config     PipelineConfig
	source     interfaces.ParkSource
	store      interfaces.ParkStorage
	downloader interfaces.AssetDownloader
	assembler  *Assembler
	writers    []Writer
	rng        *rand.Rand
	logger     arbor.ILogger
}

// Result describes a completed run
type Result struct {
	RunID    string
	Parks    []string
	Outputs  []string
	Duration time.Duration
}

// NewPipeline wires a run. store may be nil, in which case fetched records are
// not cached. In offline mode source is expected to be the cache itself.
func NewPipeline(
	config PipelineConfig,
	source interfaces.ParkSource,
	store interfaces.ParkStorage,
	downloader interfaces.AssetDownloader,
	assembler *Assembler,
	writers []Writer,
	rng *rand.Rand,
	logger arbor.ILogger,
) *Pipeline {
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	if rng == nil {
		rng = sampler.NewRand(0)
	}
	return &Pipeline{
		config:     config,
		source:     source,
		store:      store,
		downloader: downloader,
		assembler:  assembler,
		writers:    writers,
		rng:        rng,
		logger:     logger,
	}
}

// Run executes the pipeline. Any failure aborts the run and nothing is saved.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := common.NewRunID()
	logger := p.logger.WithCorrelationId(runID)

	logger.Info().
		Int("parks", p.config.ParkCount).
		Int("gallery", p.config.GallerySize).
		Bool("offline", p.config.Offline).
		Msg("Building park guide")

	catalog, err := p.source.GetCatalog(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("error requesting park data, check network connection")
		return nil, fmt.Errorf("failed to fetch park catalog: %w", err)
	}
	if p.store != nil && !p.config.Offline {
		if err := p.store.SaveCatalog(ctx, catalog); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache park catalog")
		}
	}

	ids, err := sampler.Sample(p.rng, catalog.IDs(), p.config.ParkCount)
	if err != nil {
		logger.Error().Err(err).Int("catalog", len(catalog)).Msg("Failed to sample parks")
		return nil, err
	}
	logger.Debug().Strs("park_ids", ids).Msg("Parks sampled")

	doc := NewDocument()
	doc.AddParagraph(p.config.Title, StyleTitle)

	names := make([]string, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		park, err := p.buildPark(ctx, logger, doc, id)
		if err != nil {
			return nil, err
		}
		names = append(names, park.Name)

		logger.Info().
			Str("park", park.Name).
			Int("position", i+1).
			Int("of", len(ids)).
			Msg("Park added to guide")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputs, err := doc.Save(p.config.Output, p.writers...)
	if err != nil {
		logger.Error().Err(err).Str("output", p.config.Output).Msg("Failed to save guide")
		return nil, err
	}

	result := &Result{
		RunID:    runID,
		Parks:    names,
		Outputs:  outputs,
		Duration: time.Since(start),
	}
	logger.Info().
		Strs("parks", names).
		Strs("outputs", outputs).
		Str("duration", result.Duration.Round(time.Millisecond).String()).
		Msg("Park guide complete")
	return result, nil
}

func (p *Pipeline) buildPark(ctx context.Context, logger arbor.ILogger, doc *Document, id string) (*models.ParkDetail, error) {
	park, err := p.source.GetPark(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotCached) {
			logger.Error().Err(err).Str("park_id", id).Msg("Park is not in the offline cache")
		} else {
			logger.Error().Err(err).Str("park_id", id).Msg("error requesting park information, check network connection")
		}
		return nil, fmt.Errorf("failed to fetch park %s: %w", id, err)
	}
	if p.store != nil && !p.config.Offline {
		if err := p.store.SavePark(ctx, id, park); err != nil {
			logger.Warn().Err(err).Str("park_id", id).Msg("Failed to cache park record")
		}
	}

	if required := 1 + p.config.GallerySize; len(park.Images) < required {
		err := &GalleryBoundsError{Park: park.Name, Available: len(park.Images), Required: required}
		logger.Error().Err(err).Str("park_id", id).Msg("Park does not have enough images")
		return nil, err
	}

	if !p.config.Offline {
		if _, err := p.downloader.Download(ctx, park.Images, park.Name); err != nil {
			logger.Error().Err(err).Str("park", park.Name).Msg("Failed to download park images")
			return nil, err
		}
	}

	if err := p.assembler.AddPark(ctx, doc, park); err != nil {
		logger.Error().Err(err).Str("park", park.Name).Msg("Failed to assemble park section")
		return nil, err
	}
	return park, nil
}
