package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/extractor"
	"github.com/futig/ai-workbench/internal/pkg/splitter"
	"github.com/futig/ai-workbench/internal/repository"
	"go.uber.org/zap"
)

// fakeEmbedder maps each text to a vector counting a few marker words
type fakeEmbedder struct {
	readyErr error
	err      error
	calls    int
	batches  []int
}

var markers = []string{"apple", "banana", "cherry"}

func (f *fakeEmbedder) Ready() error { return f.readyErr }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.batches = append(f.batches, len(texts))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(markers)+1)
		for j, m := range markers {
			vec[j] = float32(strings.Count(strings.ToLower(t), m))
		}
		vec[len(markers)] = 0.01
		out[i] = vec
	}
	return out, nil
}

type fakeChat struct {
	readyErr error
	err      error
	reply    string
	calls    int
	lastMsgs []entity.ChatMessage
}

func (f *fakeChat) Ready() error { return f.readyErr }

func (f *fakeChat) Complete(_ context.Context, msgs []entity.ChatMessage) (string, error) {
	f.calls++
	f.lastMsgs = msgs
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestUsecase(emb *fakeEmbedder, chat *fakeChat) (*RAGUsecase, *repository.DocumentMemory) {
	store := repository.NewDocumentMemory()
	uc := NewUsecase(
		store,
		extractor.New(),
		splitter.New(splitter.Config{ChunkSize: 100, ChunkOverlap: 20}),
		emb,
		chat,
		config.RAGConfig{ChunkSize: 100, ChunkOverlap: 20, TopK: 4, EmbedBatchSize: 2},
		zap.NewNop(),
	)
	return uc, store
}

func textFile(name, body string) *entity.UploadedFile {
	return &entity.UploadedFile{Filename: name, ContentType: "text/plain; charset=utf-8", Content: []byte(body)}
}

func TestIngest_CountsDocuments(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	uc, _ := newTestUsecase(emb, &fakeChat{})

	body := strings.Repeat("An apple a day keeps the doctor away. ", 12)
	res, err := uc.Ingest(ctx, textFile("apples.txt", body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalDocuments != 1 || res.ChunkCount < 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	for _, b := range emb.batches {
		if b > 2 {
			t.Errorf("embedding batch of %d exceeds configured size", b)
		}
	}

	res, err = uc.Ingest(ctx, textFile("bananas.txt", "Bananas are yellow."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalDocuments != 2 || res.ChunkCount != 1 {
		t.Fatalf("unexpected second result %+v", res)
	}

	status := uc.Status(ctx)
	if !status.HasDocuments || status.Status != entity.StoreStatusReady || status.TotalDocuments != 2 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestIngest_FailuresLeaveStoreUntouched(t *testing.T) {
	cases := []struct {
		name string
		emb  *fakeEmbedder
		file *entity.UploadedFile
		want error
	}{
		{
			name: "unsupported media type",
			emb:  &fakeEmbedder{},
			file: &entity.UploadedFile{Filename: "a.png", ContentType: "image/png", Content: []byte("x")},
			want: entity.ErrUnsupportedMediaType,
		},
		{
			name: "missing credential",
			emb:  &fakeEmbedder{readyErr: entity.ErrCredentialMissing},
			file: textFile("a.txt", "text"),
			want: entity.ErrCredentialMissing,
		},
		{
			name: "empty document",
			emb:  &fakeEmbedder{},
			file: textFile("a.txt", "  \n\t "),
			want: entity.ErrEmptyDocument,
		},
		{
			name: "embedding failure",
			emb:  &fakeEmbedder{err: errors.New("gateway down")},
			file: textFile("a.txt", "some text"),
			want: entity.ErrEmbeddingUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			uc, store := newTestUsecase(tc.emb, &fakeChat{})

			_, err := uc.Ingest(ctx, tc.file)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if docs, chunks := store.Count(ctx); docs != 0 || chunks != 0 {
				t.Fatalf("store mutated: %d documents, %d chunks", docs, chunks)
			}
		})
	}
}

func TestAnswer_EmptyStoreCallsNoProvider(t *testing.T) {
	emb := &fakeEmbedder{}
	chat := &fakeChat{reply: "x"}
	uc, _ := newTestUsecase(emb, chat)

	_, err := uc.Answer(context.Background(), "what is an apple?")
	if !errors.Is(err, entity.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if emb.calls != 0 || chat.calls != 0 {
		t.Fatalf("providers called: embed=%d chat=%d", emb.calls, chat.calls)
	}
}

func TestAnswer_BuildsPromptFromClosestChunks(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	chat := &fakeChat{reply: "  Cherries are red.  "}
	uc, _ := newTestUsecase(emb, chat)

	for name, body := range map[string]string{
		"apple.txt":  "Apple trees grow in orchards.",
		"cherry.txt": "Cherry blossoms bloom in spring.",
	} {
		if _, err := uc.Ingest(ctx, textFile(name, body)); err != nil {
			t.Fatalf("ingest %s: %v", name, err)
		}
	}

	res, err := uc.Answer(ctx, "  When does the cherry bloom?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Answer != "Cherries are red." || res.Question != "When does the cherry bloom?" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.TotalDocuments != 2 || len(res.Sources) != 2 || res.Sources[0].Filename != "cherry.txt" {
		t.Errorf("unexpected sources %+v", res.Sources)
	}

	if len(chat.lastMsgs) != 2 || chat.lastMsgs[0].Role != entity.RoleSystem {
		t.Fatalf("unexpected prompt %+v", chat.lastMsgs)
	}
	if !strings.Contains(chat.lastMsgs[0].Content, RefusalAnswer) {
		t.Error("instruction must carry the refusal sentence")
	}
	user := chat.lastMsgs[1].Content
	cherry := strings.Index(user, "Cherry blossoms")
	apple := strings.Index(user, "Apple trees")
	if cherry < 0 || apple < 0 || cherry > apple {
		t.Errorf("context not in selection order: %q", user)
	}
	if !strings.HasSuffix(user, "Question: When does the cherry bloom?") {
		t.Errorf("prompt does not end with the question: %q", user)
	}
}

func TestAnswer_ChatFailure(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestUsecase(&fakeEmbedder{}, &fakeChat{err: errors.New("rate limited")})

	if _, err := uc.Ingest(ctx, textFile("a.txt", "apple")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := uc.Answer(ctx, "apple?"); !errors.Is(err, entity.ErrAllProvidersUnavailable) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestUsecase(&fakeEmbedder{}, &fakeChat{})

	uc.Ingest(ctx, textFile("a.txt", "apple"))
	if err := uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	status := uc.Status(ctx)
	if status.HasDocuments || status.Status != entity.StoreStatusEmpty || status.TotalChunks != 0 {
		t.Fatalf("unexpected status after clear %+v", status)
	}
}
