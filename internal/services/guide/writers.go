package guide

import (
	"fmt"

	"github.com/ternarybob/arbor"
)

// NewWriters maps configured format names to writers
func NewWriters(formats []string, logger arbor.ILogger) ([]Writer, error) {
	writers := make([]Writer, 0, len(formats))
	seen := make(map[string]bool, len(formats))
	for _, format := range formats {
		var w Writer
		switch format {
		case "pdf":
			w = NewPDFWriter(logger)
		case "md", "markdown":
			w = NewMarkdownWriter(logger)
		case "html":
			w = NewHTMLWriter(logger)
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
		if seen[w.Extension()] {
			continue
		}
		seen[w.Extension()] = true
		writers = append(writers, w)
	}
	return writers, nil
}
