package openrouter

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

const mockEmbeddingDim = 64

// MockChatModel answers every conversation with a canned reply built from
// the last message
type MockChatModel struct{}

func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion")
	return schema.AssistantMessage(mockReply(input), nil), nil
}

func (m *MockChatModel) Stream(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	ctxzap.Info(ctx, "[MOCK] chat stream")

	words := strings.SplitAfter(mockReply(input), " ")
	chunks := make([]*schema.Message, 0, len(words))
	for _, w := range words {
		chunks = append(chunks, schema.AssistantMessage(w, nil))
	}
	return schema.StreamReaderFromArray(chunks), nil
}

func mockReply(input []*schema.Message) string {
	if len(input) == 0 {
		return "Hello! How can I help?"
	}

	last := strings.TrimSpace(input[len(input)-1].Content)
	if i := strings.LastIndex(last, "Question:"); i >= 0 {
		last = strings.TrimSpace(last[i+len("Question:"):])
	}
	if r := []rune(last); len(r) > 120 {
		last = string(r[:120]) + "..."
	}
	return "This is a mock reply to: " + last
}

// MockEmbedder hashes words into a fixed number of buckets so that texts
// sharing vocabulary end up close to each other
type MockEmbedder struct{}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	ctxzap.Info(ctx, "[MOCK] embedding texts")

	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec := make([]float64, mockEmbeddingDim)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,;:!?\"'()[]")
			if w == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%mockEmbeddingDim]++
		}
		out[i] = vec
	}
	return out, nil
}
