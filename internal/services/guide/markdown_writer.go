package guide

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
)

var markdownPrefixes = map[Style]string{
	StyleTitle:      "# ",
	StyleHeading1:   "## ",
	StyleHeading2:   "### ",
	StyleHeading3:   "#### ",
	StyleListBullet: "- ",
}

// MarkdownWriter renders the document as Markdown. Picture links are relative
// to the output file.
type MarkdownWriter struct {
	logger arbor.ILogger
}

var _ Writer = (*MarkdownWriter)(nil)

func NewMarkdownWriter(logger arbor.ILogger) *MarkdownWriter {
	if logger == nil {
		logger = arbor.NewNoOpLogger()
	}
	return &MarkdownWriter{logger: logger}
}

func (w *MarkdownWriter) Extension() string {
	return ".md"
}

func (w *MarkdownWriter) Write(doc *Document, path string) error {
	content := RenderMarkdown(doc, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}

	w.logger.Info().Str("path", path).Int("bytes", len(content)).Msg("Markdown guide written")
	return nil
}

// RenderMarkdown converts blocks to Markdown, linking pictures relative to baseDir
func RenderMarkdown(doc *Document, baseDir string) string {
	var sb strings.Builder
	prevBullet := false

	for _, b := range doc.Blocks() {
		if b.Kind == KindParagraph && b.IsBlank() {
			continue
		}

		isBullet := b.Kind == KindParagraph && b.Style == StyleListBullet
		// Consecutive bullets form one list
		if sb.Len() > 0 && !(isBullet && prevBullet) {
			sb.WriteString("\n")
		}
		prevBullet = isBullet

		if b.Kind == KindPicture {
			fmt.Fprintf(&sb, "![](%s)\n", markdownLink(b.Path, baseDir))
			continue
		}

		prefix := markdownPrefixes[b.Style]
		lines := strings.Split(b.Text, "\n")
		for i, line := range lines {
			lines[i] = escapeMarkdown(line)
		}
		sb.WriteString(prefix)
		if prefix == "" {
			// Hard line breaks keep multi-line bodies together
			sb.WriteString(strings.Join(lines, "  \n"))
		} else {
			sb.WriteString(strings.Join(lines, " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func markdownLink(path, baseDir string) string {
	if filepath.IsAbs(path) == filepath.IsAbs(baseDir) {
		if rel, err := filepath.Rel(baseDir, path); err == nil {
			path = rel
		}
	}
	return strings.ReplaceAll(filepath.ToSlash(path), " ", "%20")
}

var (
	markdownEscaper = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
		"<", `\<`, ">", `\>`, "#", `\#`, "&", `\&`, "|", `\|`,
	)
	// Line starts that open a list, heading or code block
	orderedMarker = regexp.MustCompile(`^(\d{1,9})([.)])`)
	leadingMarker = regexp.MustCompile(`^([-+=~])`)
)

// escapeMarkdown makes one line of park text render literally. Bare URLs are
// left alone so they still autolink.
func escapeMarkdown(line string) string {
	words := strings.Split(line, " ")
	for i, w := range words {
		if !isBareURL(w) {
			words[i] = markdownEscaper.Replace(w)
		}
	}
	line = strings.Join(words, " ")

	line = orderedMarker.ReplaceAllString(line, `${1}\${2}`)
	return leadingMarker.ReplaceAllString(line, `\${1}`)
}

func isBareURL(word string) bool {
	return strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") || strings.HasPrefix(word, "www.")
}
