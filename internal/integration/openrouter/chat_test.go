package openrouter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"go.uber.org/zap"
)

type fakeChatModel struct {
	chunks    []string
	streamErr error
	lastInput []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.lastInput = input
	return schema.AssistantMessage(strings.Join(f.chunks, ""), nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.lastInput = input
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	msgs := make([]*schema.Message, len(f.chunks))
	for i, c := range f.chunks {
		msgs[i] = schema.AssistantMessage(c, nil)
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func TestChatConnector_StreamConcatenates(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"Hel", "lo", ", ", "world"}}
	c := NewChatConnectorWithModel(config.OpenRouterConfig{}, fake, zap.NewNop())

	ch, err := c.Stream(context.Background(), []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: "be nice"},
		{Role: entity.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	for frag := range ch {
		if frag.Err != nil {
			t.Fatalf("unexpected fragment error: %v", frag.Err)
		}
		sb.WriteString(frag.Content)
	}

	if sb.String() != "Hello, world" {
		t.Errorf("stream = %q, want %q", sb.String(), "Hello, world")
	}
	if len(fake.lastInput) != 2 || fake.lastInput[0].Role != schema.System || fake.lastInput[1].Role != schema.User {
		t.Errorf("unexpected provider input %+v", fake.lastInput)
	}
}

func TestChatConnector_StopsWhenConsumerLeaves(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"a", "b", "c", "d"}}
	c := NewChatConnectorWithModel(config.OpenRouterConfig{}, fake, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := c.Stream(ctx, []entity.ChatMessage{{Role: entity.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	<-ch
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream was not closed after cancellation")
		}
	}
}

func TestChatConnector_StreamStartFailure(t *testing.T) {
	fake := &fakeChatModel{streamErr: errors.New("boom")}
	c := NewChatConnectorWithModel(config.OpenRouterConfig{}, fake, zap.NewNop())

	_, err := c.Stream(context.Background(), []entity.ChatMessage{{Role: entity.RoleUser, Content: "hi"}})
	if !errors.Is(err, entity.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestChatConnector_MissingCredential(t *testing.T) {
	c, err := NewChatConnector(context.Background(), config.OpenRouterConfig{APIKey: "your_api_key_here"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Complete(context.Background(), nil); !errors.Is(err, entity.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
	if _, err := c.Stream(context.Background(), nil); !errors.Is(err, entity.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestEmbeddingConnector_ConvertsVectors(t *testing.T) {
	c := NewEmbeddingConnectorWithEmbedder(config.OpenRouterConfig{}, NewMockEmbedder(), zap.NewNop())

	vecs, err := c.Embed(context.Background(), []string{"alpha beta", "gamma"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != mockEmbeddingDim {
		t.Fatalf("unexpected vectors: %d x %d", len(vecs), len(vecs[0]))
	}

	var sum float32
	for _, v := range vecs[0] {
		sum += v
	}
	if sum != 2 {
		t.Errorf("expected two hashed words, got %v", sum)
	}
}
