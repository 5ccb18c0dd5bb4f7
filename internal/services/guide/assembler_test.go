package guide

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/services/assets"
)

type expectedBlock struct {
	kind  BlockKind
	style Style
	text  string
	path  string
	align Alignment
}

func TestAssembler_AddPark(t *testing.T) {
	dir := t.TempDir()
	park := samplePark("Itasca", 7)
	writeParkImages(t, dir, park.Name, 7)

	maps := newFakeMaps(t, dir)
	a := NewAssembler(dir, 6, maps, arbor.NewNoOpLogger())

	doc := NewDocument()
	require.NoError(t, a.AddPark(context.Background(), doc, park))

	para := func(style Style, text string) expectedBlock {
		return expectedBlock{kind: KindParagraph, style: style, text: text}
	}
	pic := func(index int, align Alignment) expectedBlock {
		return expectedBlock{kind: KindPicture, path: assets.ImagePath(dir, "Itasca", index), align: align}
	}

	expected := []expectedBlock{
		para(StyleHeading1, "Itasca"),
		pic(0, AlignLeft),
		para(StyleHeading2, "Highlights"),
		para(StyleListBullet, "Mississippi headwaters"),
		para(StyleListBullet, "Old-growth pines"),
		para(StyleListBullet, "Wilderness Drive"),
		para(StyleHeading2, "Camping"),
		para(StyleNormal, "Drive-in sites & cabins"),
		para(StyleHeading2, "Trails"),
		para(StyleNormal, "Hiking\nSkiing"),
		para(StyleHeading2, "Boating"),
		para(StyleNormal, "Canoe rentals on the lake"),
		pic(1, AlignCenter),
		pic(2, AlignCenter),
		pic(3, AlignCenter),
		pic(4, AlignCenter),
		pic(5, AlignCenter),
		pic(6, AlignCenter),
		para(StyleHeading2, "Contact Information"),
		para(StyleHeading3, "Address"),
		para(StyleNormal, park.Address),
		para(StyleHeading3, "Website"),
		para(StyleNormal, park.URL),
		para(StyleHeading2, "Map"),
		{kind: KindPicture, path: assets.MapPath(dir, "Itasca"), align: AlignCenter},
		para(StyleNormal, ""),
	}

	blocks := doc.Blocks()
	require.Len(t, blocks, len(expected))
	for i, want := range expected {
		got := blocks[i]
		assert.Equal(t, want.kind, got.Kind, "block %d kind", i)
		assert.Equal(t, want.align, got.Alignment, "block %d alignment", i)
		if want.kind == KindPicture {
			assert.Equal(t, want.path, got.Path, "block %d path", i)
			continue
		}
		assert.Equal(t, want.style, got.Style, "block %d style", i)
		assert.Equal(t, want.text, got.Text, "block %d text", i)
	}

	assert.Equal(t, HeaderWidth, blocks[1].Width)
	assert.Equal(t, HeaderHeight, blocks[1].Height)
	assert.Equal(t, GalleryWidth, blocks[12].Width)
	assert.Equal(t, GalleryHeight, blocks[12].Height)
	assert.Equal(t, []string{"Itasca"}, maps.calls)
}

func TestAssembler_MissingGalleryImage(t *testing.T) {
	dir := t.TempDir()
	park := samplePark("Itasca", 4)
	// Header plus three gallery images on disk
	writeParkImages(t, dir, park.Name, 4)

	maps := newFakeMaps(t, dir)
	a := NewAssembler(dir, 6, maps, nil)

	doc := NewDocument()
	err := a.AddPark(context.Background(), doc, park)
	require.Error(t, err)

	var missing *MissingAssetError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, assets.ImagePath(dir, "Itasca", 4), missing.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	// Three gallery pictures made it in before the failure
	assert.Equal(t, KindPicture, doc.Last().Kind)
	assert.Equal(t, assets.ImagePath(dir, "Itasca", 3), doc.Last().Path)
	assert.Empty(t, maps.calls)
}

func TestAssembler_MissingHeaderImage(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(dir, 6, newFakeMaps(t, dir), nil)

	err := a.AddPark(context.Background(), NewDocument(), samplePark("Itasca", 7))

	var missing *MissingAssetError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, assets.ImagePath(dir, "Itasca", 0), missing.Path)
}

func TestAssembler_MapFailure(t *testing.T) {
	dir := t.TempDir()
	writeParkImages(t, dir, "Itasca", 7)
	maps := newFakeMaps(t, dir)
	maps.err = errors.New("tile server unavailable")

	doc := NewDocument()
	err := NewAssembler(dir, 6, maps, nil).AddPark(context.Background(), doc, samplePark("Itasca", 7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile server unavailable")
	assert.False(t, doc.Last().IsBlank())
}

func TestAssembler_NoGallery(t *testing.T) {
	dir := t.TempDir()
	writeParkImages(t, dir, "Itasca", 1)

	doc := NewDocument()
	require.NoError(t, NewAssembler(dir, 0, newFakeMaps(t, dir), nil).AddPark(context.Background(), doc, samplePark("Itasca", 1)))

	pictures := 0
	for _, b := range doc.Blocks() {
		if b.Kind == KindPicture {
			pictures++
		}
	}
	assert.Equal(t, 2, pictures)
}
