package guide

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home
	api.DisableConfigDir()
}

type pdfStyle struct {
	font        string
	size        float64
	lineHeight  float64
	spaceBefore float64
}

var pdfStyles = map[Style]pdfStyle{
	StyleTitle:      {font: "B", size: 24, lineHeight: 11, spaceBefore: 0},
	StyleHeading1:   {font: "B", size: 18, lineHeight: 9, spaceBefore: 6},
	StyleHeading2:   {font: "B", size: 14, lineHeight: 7, spaceBefore: 4},
	StyleHeading3:   {font: "B", size: 12, lineHeight: 6, spaceBefore: 2},
	StyleNormal:     {font: "", size: 11, lineHeight: 5.5, spaceBefore: 1},
	StyleListBullet: {font: "", size: 11, lineHeight: 5.5, spaceBefore: 0.5},
}

const bulletIndent = 5.0

// PDFWriter renders the document to an A4 PDF
type PDFWriter struct {
	logger arbor.ILogger
}

var _ Writer = (*PDFWriter)(nil)

func NewPDFWriter(logger arbor.ILogger) *PDFWriter {
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	return &PDFWriter{logger: logger}
}

func (w *PDFWriter) Extension() string {
	return ".pdf"
}

// Write renders every block in order, saves the file and validates it
func (w *PDFWriter) Write(doc *Document, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(documentTitle(doc), true)
	pdf.AddPage()

	r := &pdfRenderer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	r.left = left
	r.contentWidth = pageWidth - left - right

	for i, block := range doc.Blocks() {
		if err := r.block(block); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if pdf.Err() {
			return fmt.Errorf("block %d: %w", i, pdf.Error())
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("Failed to generate PDF output")
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("generated PDF failed validation: %w", err)
	}
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}

	w.logger.Info().
		Str("path", path).
		Int("pages", pdfCtx.PageCount).
		Int("blocks", doc.Len()).
		Msg("PDF guide written")
	return nil
}

type pdfRenderer struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	left         float64
	contentWidth float64
}

func (r *pdfRenderer) block(b Block) error {
	switch b.Kind {
	case KindPicture:
		return r.picture(b)
	default:
		r.paragraph(b)
		return nil
	}
}

func (r *pdfRenderer) paragraph(b Block) {
	style, ok := pdfStyles[b.Style]
	if !ok {
		style = pdfStyles[StyleNormal]
	}
	r.pdf.SetFont("Arial", style.font, style.size)

	if b.IsBlank() {
		r.pdf.Ln(style.lineHeight)
		return
	}
	if style.spaceBefore > 0 {
		r.pdf.Ln(style.spaceBefore)
	}

	align := "L"
	if b.Alignment == AlignCenter {
		align = "C"
	}

	if b.Style == StyleListBullet {
		r.pdf.SetX(r.left + bulletIndent)
		r.pdf.CellFormat(bulletIndent, style.lineHeight, r.tr("•"), "", 0, "L", false, 0, "")
		r.pdf.MultiCell(r.contentWidth-2*bulletIndent, style.lineHeight, r.tr(b.Text), "", align, false)
		return
	}

	r.pdf.MultiCell(0, style.lineHeight, r.tr(b.Text), "", align, false)
}

func (r *pdfRenderer) picture(b Block) error {
	imageType, err := pdfImageType(b.Path)
	if err != nil {
		return err
	}

	width := b.Width
	if width > r.contentWidth {
		width = r.contentWidth
	}
	x := r.left
	if b.Alignment == AlignCenter {
		x = r.left + (r.contentWidth-width)/2
	}

	r.pdf.Ln(2)
	// Flowing mode places the image at the current line and breaks the page when needed
	r.pdf.ImageOptions(b.Path, x, -1, width, b.Height, true, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	r.pdf.Ln(2)
	return nil
}

// pdfImageType sniffs the file content; extensions are not trusted since
// every gallery image is saved as .jpg
func pdfImageType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", &MissingAssetError{Path: path, Err: err}
	}
	switch {
	case mtype.Is("image/jpeg"):
		return "JPG", nil
	case mtype.Is("image/png"):
		return "PNG", nil
	case mtype.Is("image/gif"):
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image type %s for %s", mtype.String(), path)
	}
}

// documentTitle is the text of the first Title paragraph
func documentTitle(doc *Document) string {
	for _, b := range doc.Blocks() {
		if b.Kind == KindParagraph && b.Style == StyleTitle {
			return strings.TrimSpace(b.Text)
		}
	}
	return ""
}
