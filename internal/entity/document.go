package entity

// Supported upload media types
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

// DocumentKind identifies how text is extracted from an uploaded file
type DocumentKind string

const (
	DocumentKindPDF  DocumentKind = "pdf"
	DocumentKindDOCX DocumentKind = "docx"
	DocumentKindText DocumentKind = "text"
)

// DocumentChunk is one embedded segment of an ingested file
type DocumentChunk struct {
	SourceFilename string
	Text           string
	Embedding      []float32
}

// ScoredChunk is a chunk returned by similarity search
type ScoredChunk struct {
	Chunk DocumentChunk
	Score float64
}

// UploadedFile is a file received by the ingestion endpoint
type UploadedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
