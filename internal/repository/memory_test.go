package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/futig/ai-workbench/internal/entity"
)

func chunk(text string, vec ...float32) entity.DocumentChunk {
	return entity.DocumentChunk{Text: text, Embedding: vec}
}

func TestDocumentMemory_DocumentCount(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()

	n, _ := r.Append(ctx, "a.txt", []entity.DocumentChunk{chunk("a1", 1, 0), chunk("a2", 0, 1)})
	if n != 1 {
		t.Fatalf("expected 1 document, got %d", n)
	}
	n, _ = r.Append(ctx, "b.txt", []entity.DocumentChunk{chunk("b1", 1, 1)})
	if n != 2 {
		t.Fatalf("expected 2 documents, got %d", n)
	}

	docs, chunks := r.Count(ctx)
	if docs != 2 || chunks != 3 {
		t.Fatalf("Count() = %d, %d; want 2, 3", docs, chunks)
	}

	if err := r.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	docs, chunks = r.Count(ctx)
	if docs != 0 || chunks != 0 {
		t.Fatalf("after clear Count() = %d, %d", docs, chunks)
	}

	n, _ = r.Append(ctx, "c.txt", []entity.DocumentChunk{chunk("c1", 1, 0)})
	if n != 1 {
		t.Fatalf("expected count to restart at 1, got %d", n)
	}
}

func TestDocumentMemory_QueryTopK(t *testing.T) {
	ctx := context.Background()
	r := NewDocumentMemory()

	r.Append(ctx, "a.txt", []entity.DocumentChunk{
		chunk("orthogonal", 0, 1),
		chunk("first exact", 1, 0),
		chunk("close", 1, 0.1),
		chunk("second exact", 2, 0),
	})

	got, err := r.QueryTopK(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}

	// equal scores keep insertion order
	want := []string{"first exact", "second exact", "close"}
	for i, w := range want {
		if got[i].Chunk.Text != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Chunk.Text, w)
		}
		if got[i].Chunk.SourceFilename != "a.txt" {
			t.Errorf("result[%d] filename = %q", i, got[i].Chunk.SourceFilename)
		}
	}
	if math.Abs(got[0].Score-1) > 1e-9 {
		t.Errorf("expected score 1, got %v", got[0].Score)
	}
}

func TestDocumentMemory_QueryEmpty(t *testing.T) {
	got, err := NewDocumentMemory().QueryTopK(context.Background(), []float32{1}, 4)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no results, got %v, %v", got, err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if s := cosineSimilarity([]float32{1, 2}, []float32{1}); s != 0 {
		t.Errorf("mismatched lengths should score 0, got %v", s)
	}
	if s := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); s != 0 {
		t.Errorf("zero vector should score 0, got %v", s)
	}
	if s := cosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(s+1) > 1e-9 {
		t.Errorf("opposite vectors should score -1, got %v", s)
	}
}

func TestSessionMemory_Isolation(t *testing.T) {
	ctx := context.Background()
	r := NewSessionMemory(time.Hour, time.Hour)

	a := r.GetOrCreate(ctx, "a")
	a.Summary = "about cats"

	b := r.GetOrCreate(ctx, "b")
	if b.Summary != "" {
		t.Fatalf("session b sees session a memory: %q", b.Summary)
	}
	if again := r.GetOrCreate(ctx, "a"); again != a {
		t.Fatal("expected the same memory for the same session")
	}
	if r.Len(ctx) != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len(ctx))
	}

	if !r.Delete(ctx, "a") {
		t.Fatal("expected delete to report an existing session")
	}
	if r.Delete(ctx, "a") {
		t.Fatal("expected second delete to report a missing session")
	}
	if fresh := r.GetOrCreate(ctx, "a"); fresh.Summary != "" {
		t.Fatal("deleted session was resurrected with old memory")
	}
}

func TestSessionMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	r := NewSessionMemory(20*time.Millisecond, time.Hour)

	r.GetOrCreate(ctx, "s").Summary = "old"
	time.Sleep(50 * time.Millisecond)

	if got := r.GetOrCreate(ctx, "s"); got.Summary != "" {
		t.Fatalf("expected expired session to start empty, got %q", got.Summary)
	}
}
