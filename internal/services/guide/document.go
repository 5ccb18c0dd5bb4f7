// Package guide assembles the travel guide document and writes it to disk.
package guide

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrAlreadySaved is returned by a second call to Document.Save
var ErrAlreadySaved = errors.New("document has already been saved")

// Style names the paragraph styles the writers know how to render
type Style string

const (
	StyleTitle      Style = "Title"
	StyleHeading1   Style = "Heading 1"
	StyleHeading2   Style = "Heading 2"
	StyleHeading3   Style = "Heading 3"
	StyleListBullet Style = "List Bullet"
	StyleNormal     Style = "Normal"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindPicture
)

// Block is one paragraph or picture of the document.
// Picture sizes are in millimetres.
type Block struct {
	Kind      BlockKind
	Text      string
	Style     Style
	Path      string
	Width     float64
	Height    float64
	Alignment Alignment
}

// IsBlank reports whether the block is an empty separator paragraph
func (b *Block) IsBlank() bool {
	return b.Kind == KindParagraph && b.Text == ""
}

// MissingAssetError is returned when a picture file is not on disk
type MissingAssetError struct {
	Path string
	Err  error
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing asset %s: %v", e.Path, e.Err)
}

func (e *MissingAssetError) Unwrap() error {
	return e.Err
}

// Writer persists a document in one output format
type Writer interface {
	Extension() string
	Write(doc *Document, path string) error
}

// Document accumulates blocks in order and is saved exactly once
type Document struct {
	blocks []Block
	saved  bool
}

func NewDocument() *Document {
	return &Document{}
}

// AddParagraph appends a paragraph and returns it
func (d *Document) AddParagraph(text string, style Style) *Block {
	d.blocks = append(d.blocks, Block{Kind: KindParagraph, Text: text, Style: style})
	return d.Last()
}

// AddPicture appends a picture after checking the file exists
func (d *Document) AddPicture(path string, width, height float64) (*Block, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingAssetError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to stat picture %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &MissingAssetError{Path: path, Err: fmt.Errorf("is a directory: %w", fs.ErrInvalid)}
	}

	d.blocks = append(d.blocks, Block{Kind: KindPicture, Path: path, Width: width, Height: height})
	return d.Last(), nil
}

// Last returns the most recently appended block, or nil for an empty document.
// The pointer is only valid until the next append.
func (d *Document) Last() *Block {
	if len(d.blocks) == 0 {
		return nil
	}
	return &d.blocks[len(d.blocks)-1]
}

// Blocks returns the blocks in document order
func (d *Document) Blocks() []Block {
	return d.blocks
}

func (d *Document) Len() int {
	return len(d.blocks)
}

func (d *Document) Saved() bool {
	return d.saved
}

// Save writes the document once through every writer as basename plus the
// writer's extension, returning the written paths. Any further call fails with
// ErrAlreadySaved, including after a failed save.
func (d *Document) Save(basename string, writers ...Writer) ([]string, error) {
	if d.saved {
		return nil, ErrAlreadySaved
	}
	d.saved = true

	if len(writers) == 0 {
		return nil, errors.New("no document writers configured")
	}

	paths := make([]string, 0, len(writers))
	for _, w := range writers {
		path := basename + w.Extension()
		if err := w.Write(d, path); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
