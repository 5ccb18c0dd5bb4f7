package guide

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Arial, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
img { display: block; margin: 1rem auto; max-width: 100%%; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTMLWriter renders the Markdown form of the document through goldmark
type HTMLWriter struct {
	md     goldmark.Markdown
	logger arbor.ILogger
}

var _ Writer = (*HTMLWriter)(nil)

func NewHTMLWriter(logger arbor.ILogger) *HTMLWriter {
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	return &HTMLWriter{
		md:     goldmark.New(goldmark.WithExtensions(extension.Linkify)),
		logger: logger,
	}
}

func (w *HTMLWriter) Extension() string {
	return ".html"
}

func (w *HTMLWriter) Write(doc *Document, path string) error {
	source := RenderMarkdown(doc, filepath.Dir(path))

	var body bytes.Buffer
	if err := w.md.Convert([]byte(source), &body); err != nil {
		return fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	page := fmt.Sprintf(htmlPage, html.EscapeString(documentTitle(doc)), body.String())
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}

	w.logger.Info().Str("path", path).Int("bytes", len(page)).Msg("HTML guide written")
	return nil
}
