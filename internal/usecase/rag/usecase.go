package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/extractor"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RAGUsecase ingests documents into the shared store and answers questions
// from them
type RAGUsecase struct {
	store     DocumentStore
	extractor TextExtractor
	splitter  TextSplitter
	embedder  Embedder
	chat      ChatCompleter
	config    config.RAGConfig
	logger    *zap.Logger
}

// NewUsecase creates a new document question answering use case
func NewUsecase(
	store DocumentStore,
	extractor TextExtractor,
	splitter TextSplitter,
	embedder Embedder,
	chat ChatCompleter,
	cfg config.RAGConfig,
	logger *zap.Logger,
) *RAGUsecase {
	return &RAGUsecase{
		store:     store,
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		chat:      chat,
		config:    cfg,
		logger:    logger,
	}
}

// Ingest extracts, chunks and embeds one file and appends it to the store.
// The store is left untouched on any failure.
func (uc *RAGUsecase) Ingest(ctx context.Context, file *entity.UploadedFile) (*entity.IngestResult, error) {
	kind, err := extractor.KindForMediaType(file.ContentType)
	if err != nil {
		return nil, err
	}

	if err := uc.embedder.Ready(); err != nil {
		return nil, err
	}

	text, err := uc.extractor.ExtractText(ctx, file.Content, kind)
	if err != nil {
		if errors.Is(err, entity.ErrUnsupportedMediaType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: extract text from %s: %w", entity.ErrInvalidInput, file.Filename, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyDocument, file.Filename)
	}

	pieces := uc.splitter.Split(text)

	ctxzap.Info(ctx, "document split",
		zap.String("filename", file.Filename),
		zap.String("kind", string(kind)),
		zap.Int("runes", len([]rune(text))),
		zap.Int("chunk_count", len(pieces)),
	)

	vectors, err := uc.embedBatches(ctx, pieces)
	if err != nil {
		return nil, err
	}

	chunks := make([]entity.DocumentChunk, len(pieces))
	for i := range pieces {
		chunks[i] = entity.DocumentChunk{
			SourceFilename: file.Filename,
			Text:           pieces[i],
			Embedding:      vectors[i],
		}
	}

	total, err := uc.store.Append(ctx, file.Filename, chunks)
	if err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	ctxzap.Info(ctx, "document ingested",
		zap.String("filename", file.Filename),
		zap.Int("chunk_count", len(chunks)),
		zap.Int("total_documents", total),
	)

	return &entity.IngestResult{
		Filename:       file.Filename,
		ChunkCount:     len(chunks),
		TotalDocuments: total,
		Message:        fmt.Sprintf("Document %s processed into %d chunks", file.Filename, len(chunks)),
	}, nil
}

func (uc *RAGUsecase) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	batch := uc.config.EmbedBatchSize
	if batch <= 0 {
		batch = len(texts)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batch {
		end := min(start+batch, len(texts))

		vecs, err := uc.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingUnavailable, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: got %d vectors for %d chunks", entity.ErrEmbeddingUnavailable, len(vecs), end-start)
		}
		vectors = append(vectors, vecs...)
	}

	return vectors, nil
}

// Answer retrieves the closest chunks for question and asks the chat model to
// answer from them only
func (uc *RAGUsecase) Answer(ctx context.Context, question string) (*entity.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	if docs, _ := uc.store.Count(ctx); docs == 0 {
		return nil, entity.ErrNoDocuments
	}

	if err := uc.embedder.Ready(); err != nil {
		return nil, err
	}
	if err := uc.chat.Ready(); err != nil {
		return nil, err
	}

	vecs, err := uc.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: no vector for question", entity.ErrEmbeddingUnavailable)
	}

	hits, err := uc.store.QueryTopK(ctx, vecs[0], uc.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	// the store may have been cleared since the count above
	if len(hits) == 0 {
		return nil, entity.ErrNoDocuments
	}

	ctxzap.Info(ctx, "retrieved context",
		zap.Int("hits", len(hits)),
		zap.Float64("best_score", hits[0].Score),
	)

	answer, err := uc.chat.Complete(ctx, buildAnswerPrompt(question, hits))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrAllProvidersUnavailable, err)
	}

	sources := make([]entity.AnswerSource, len(hits))
	for i, h := range hits {
		sources[i] = entity.AnswerSource{Filename: h.Chunk.SourceFilename, Score: h.Score}
	}

	docs, _ := uc.store.Count(ctx)

	return &entity.AnswerResult{
		Question:       question,
		Answer:         strings.TrimSpace(answer),
		TotalDocuments: docs,
		Sources:        sources,
	}, nil
}

// Clear drops every stored document
func (uc *RAGUsecase) Clear(ctx context.Context) error {
	if err := uc.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	ctxzap.Info(ctx, "document store cleared")
	return nil
}

func (uc *RAGUsecase) Status(ctx context.Context) *entity.StoreStatus {
	docs, chunks := uc.store.Count(ctx)

	status := entity.StoreStatusEmpty
	if docs > 0 {
		status = entity.StoreStatusReady
	}

	return &entity.StoreStatus{
		TotalDocuments: docs,
		TotalChunks:    chunks,
		HasDocuments:   docs > 0,
		Status:         status,
	}
}
