package extractor

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	officelicense "github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
	pdflicense "github.com/unidoc/unipdf/v3/common/license"
	pdfextractor "github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"
)

// ApplyLicense registers the metered unidoc key used by PDF extraction and
// DOCX reading/writing. An empty key leaves the libraries unlicensed.
func ApplyLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := pdflicense.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unipdf license: %w", err)
	}
	if err := officelicense.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unioffice license: %w", err)
	}
	return nil
}

// KindForMediaType maps a declared upload content type onto an extraction kind
func KindForMediaType(contentType string) (entity.DocumentKind, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", entity.ErrUnsupportedMediaType, contentType)
	}

	switch strings.ToLower(mediaType) {
	case entity.MediaTypePDF:
		return entity.DocumentKindPDF, nil
	case entity.MediaTypeDOCX:
		return entity.DocumentKindDOCX, nil
	case entity.MediaTypeText:
		return entity.DocumentKindText, nil
	default:
		return "", fmt.Errorf("%w: %s (allowed: pdf, docx, txt)", entity.ErrUnsupportedMediaType, mediaType)
	}
}

// Extractor decodes uploaded files into plain text
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text of content interpreted as kind
func (e *Extractor) ExtractText(ctx context.Context, content []byte, kind entity.DocumentKind) (string, error) {
	switch kind {
	case entity.DocumentKindText:
		return decodeText(content), nil
	case entity.DocumentKindPDF:
		return extractPDF(ctx, content)
	case entity.DocumentKindDOCX:
		return extractDOCX(ctx, content)
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedMediaType, kind)
	}
}

func decodeText(content []byte) string {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(content), "�")
}

func extractPDF(ctx context.Context, content []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("load PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("get page count: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			ctxzap.Warn(ctx, "skipping unreadable PDF page", zap.Int("page", i), zap.Error(err))
			continue
		}

		ex, err := pdfextractor.New(page)
		if err != nil {
			ctxzap.Warn(ctx, "skipping PDF page without extractor", zap.Int("page", i), zap.Error(err))
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			ctxzap.Warn(ctx, "failed to extract PDF page text", zap.Int("page", i), zap.Error(err))
			continue
		}

		b.WriteString(text)
		b.WriteString("\n\n")
	}

	ctxzap.Debug(ctx, "PDF text extracted", zap.Int("pages", numPages), zap.Int("length", b.Len()))

	return b.String(), nil
}

func extractDOCX(ctx context.Context, content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("load DOCX: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	paragraphs := doc.Paragraphs()
	for _, p := range paragraphs {
		writeParagraph(&b, p)
	}

	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					writeParagraph(&b, p)
				}
			}
		}
	}

	ctxzap.Debug(ctx, "DOCX text extracted", zap.Int("paragraphs", len(paragraphs)), zap.Int("length", b.Len()))

	return b.String(), nil
}

func writeParagraph(b *strings.Builder, p document.Paragraph) {
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	b.WriteString("\n")
}
