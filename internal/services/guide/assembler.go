package guide

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
	"github.com/ternarybob/parkguide/internal/services/assets"
)

// Picture sizes in millimetres
const (
	HeaderWidth   = 152.4
	HeaderHeight  = 63.2
	GalleryWidth  = 138.9
	GalleryHeight = 72.9
	MapWidth      = 111.1
	MapHeight     = 79.4
)

// Assembler appends one park section to a document
type Assembler struct {
	assetDir    string
	gallerySize int
	maps        interfaces.MapRenderer
	logger      arbor.ILogger
}

func NewAssembler(assetDir string, gallerySize int, maps interfaces.MapRenderer, logger arbor.ILogger) *Assembler {
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	return &Assembler{
		assetDir:    assetDir,
		gallerySize: gallerySize,
		maps:        maps,
		logger:      logger,
	}
}

// AddPark appends the section for park: title and header image, highlights,
// information categories, gallery, contact details and map, then one blank
// separator paragraph. Images are expected on disk as {name}_{index}.jpg.
func (a *Assembler) AddPark(ctx context.Context, doc *Document, park *models.ParkDetail) error {
	name := park.Name

	doc.AddParagraph(name, StyleHeading1)
	if _, err := doc.AddPicture(assets.ImagePath(a.assetDir, name, 0), HeaderWidth, HeaderHeight); err != nil {
		return fmt.Errorf("failed to add header image for %s: %w", name, err)
	}

	doc.AddParagraph("Highlights", StyleHeading2)
	for _, highlight := range park.Highlights {
		doc.AddParagraph(CleanText(highlight), StyleListBullet)
	}

	for _, section := range park.Categories() {
		doc.AddParagraph(CleanText(section.Category), StyleHeading2)
		doc.AddParagraph(CleanText(section.Body), StyleNormal)
	}

	for i := 1; i <= a.gallerySize; i++ {
		block, err := doc.AddPicture(assets.ImagePath(a.assetDir, name, i), GalleryWidth, GalleryHeight)
		if err != nil {
			return fmt.Errorf("failed to add gallery image %d for %s: %w", i, name, err)
		}
		block.Alignment = AlignCenter
	}

	doc.AddParagraph("Contact Information", StyleHeading2)
	doc.AddParagraph("Address", StyleHeading3)
	doc.AddParagraph(CleanText(park.Address), StyleNormal)
	doc.AddParagraph("Website", StyleHeading3)
	doc.AddParagraph(park.URL, StyleNormal)

	doc.AddParagraph("Map", StyleHeading2)
	mapPath, err := a.maps.Render(ctx, name, park.Location)
	if err != nil {
		return fmt.Errorf("failed to render map for %s: %w", name, err)
	}
	block, err := doc.AddPicture(mapPath, MapWidth, MapHeight)
	if err != nil {
		return fmt.Errorf("failed to add map for %s: %w", name, err)
	}
	block.Alignment = AlignCenter

	doc.AddParagraph("", StyleNormal)

	a.logger.Debug().
		Str("park", name).
		Int("blocks", doc.Len()).
		Msg("Park section assembled")
	return nil
}
