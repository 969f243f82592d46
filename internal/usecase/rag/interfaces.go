package rag

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
)

type DocumentStore interface {
	Append(ctx context.Context, filename string, chunks []entity.DocumentChunk) (int, error)
	QueryTopK(ctx context.Context, vector []float32, k int) ([]entity.ScoredChunk, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (documents, chunks int)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte, kind entity.DocumentKind) (string, error)
}

type TextSplitter interface {
	Split(text string) []string
}

type Embedder interface {
	Ready() error
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type ChatCompleter interface {
	Ready() error
	Complete(ctx context.Context, msgs []entity.ChatMessage) (string, error)
}
