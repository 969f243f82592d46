package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/futig/ai-workbench/internal/entity"
)

// DocumentRepository defines the interface for the process-wide chunk store
type DocumentRepository interface {
	Append(ctx context.Context, filename string, chunks []entity.DocumentChunk) (int, error)
	QueryTopK(ctx context.Context, vector []float32, k int) ([]entity.ScoredChunk, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (documents, chunks int)
}

var _ DocumentRepository = &DocumentMemory{}

// DocumentMemory keeps embedded chunks in insertion order. Contents are lost
// on restart.
type DocumentMemory struct {
	mu        sync.RWMutex
	chunks    []entity.DocumentChunk
	documents int
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{}
}

// Append stores the chunks of one document and returns the new document count
func (r *DocumentMemory) Append(_ context.Context, filename string, chunks []entity.DocumentChunk) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range chunks {
		c.SourceFilename = filename
		r.chunks = append(r.chunks, c)
	}
	r.documents++

	return r.documents, nil
}

// QueryTopK scores every chunk against vector and returns the k best, highest
// first. Equal scores keep insertion order.
func (r *DocumentMemory) QueryTopK(_ context.Context, vector []float32, k int) ([]entity.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if k <= 0 || len(r.chunks) == 0 {
		return nil, nil
	}

	scored := make([]entity.ScoredChunk, len(r.chunks))
	for i, c := range r.chunks {
		scored[i] = entity.ScoredChunk{Chunk: c, Score: cosineSimilarity(vector, c.Embedding)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (r *DocumentMemory) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chunks = nil
	r.documents = 0
	return nil
}

func (r *DocumentMemory) Count(_ context.Context) (documents, chunks int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.documents, len(r.chunks)
}

// cosineSimilarity returns 0 for mismatched or zero-length vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
