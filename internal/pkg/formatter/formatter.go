package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/futig/ai-workbench/internal/entity"
)

// DefaultTitle heads exported documents when the caller gives none
const DefaultTitle = "Summary"

type Formatter interface {
	Format(title, plainText string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

func titleOrDefault(title string) string {
	if title == "" {
		return DefaultTitle
	}
	return title
}

// paragraphs splits text on blank lines and joins wrapped lines back together
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		lines := strings.Fields(block)
		if len(lines) == 0 {
			continue
		}
		out = append(out, strings.Join(lines, " "))
	}
	return out
}

func generatedLine() string {
	return "Generated " + time.Now().Format("2 January 2006, 15:04")
}
