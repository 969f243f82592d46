package formatter

import (
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

// MarkdownFormatter renders a summary as a Markdown document with a heading,
// an italic generation date and one paragraph per text block
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(title, text string) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.Join(strings.Fields(titleOrDefault(title)), " "))
	b.WriteString("\n\n_")
	b.WriteString(generatedLine())
	b.WriteString("_\n")

	for _, p := range paragraphs(text) {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
