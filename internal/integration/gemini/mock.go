package gemini

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

// mockReply satisfies every JSON shape the inference prompts ask for
const mockReply = "```json\n" + `{"summary": "This is a mock summary.", "label": "neutral", "confidence": 0.8, ` +
	`"categories": [{"label": "neutral", "score": 0.8}, {"label": "positive", "score": 0.2}], ` +
	`"answer": "This is a mock answer."}` + "\n```"

// MockChatModel returns a fixed fenced JSON reply
type MockChatModel struct{}

func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

func (m *MockChatModel) Generate(ctx context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	ctxzap.Info(ctx, "[MOCK] gemini completion")
	return schema.AssistantMessage(mockReply, nil), nil
}

func (m *MockChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming is not supported by the mock")
}
