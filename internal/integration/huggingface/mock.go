package huggingface

import (
	"context"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic stand-in for the inference API
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Ready() error {
	return nil
}

// Summarize keeps the leading words up to the requested maximum length
func (m *MockConnector) Summarize(ctx context.Context, modelID, text string, length entity.SummaryLength) (string, error) {
	ctxzap.Info(ctx, "[MOCK] summarizing", zap.String("model_id", modelID))

	words := strings.Fields(text)
	limit := length.MaxLength / 2
	if limit < 5 {
		limit = 5
	}
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " "), nil
}

var (
	mockPositive = []string{"good", "great", "love", "excellent", "happy", "nice", "amazing"}
	mockNegative = []string{"bad", "terrible", "hate", "awful", "sad", "poor", "horrible"}
)

// Classify scores sentiment by counting a few keywords
func (m *MockConnector) Classify(ctx context.Context, modelID, text string) ([]entity.LabelScore, error) {
	ctxzap.Info(ctx, "[MOCK] classifying", zap.String("model_id", modelID))

	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range mockPositive {
		pos += strings.Count(lower, w)
	}
	for _, w := range mockNegative {
		neg += strings.Count(lower, w)
	}

	score := 0.5 + 0.1*float64(pos-neg)
	if score > 0.99 {
		score = 0.99
	}
	if score < 0.01 {
		score = 0.01
	}

	if score >= 0.5 {
		return []entity.LabelScore{{Label: "POSITIVE", Score: score}, {Label: "NEGATIVE", Score: 1 - score}}, nil
	}
	return []entity.LabelScore{{Label: "NEGATIVE", Score: 1 - score}, {Label: "POSITIVE", Score: score}}, nil
}

// ZeroShotClassify favours labels mentioned in the text
func (m *MockConnector) ZeroShotClassify(ctx context.Context, modelID, text string, labels []string) ([]entity.LabelScore, error) {
	ctxzap.Info(ctx, "[MOCK] zero-shot classifying", zap.String("model_id", modelID))

	lower := strings.ToLower(text)
	weights := make([]float64, len(labels))
	var total float64
	for i, l := range labels {
		weights[i] = 1 + float64(strings.Count(lower, strings.ToLower(l)))
		total += weights[i]
	}

	out := make([]entity.LabelScore, len(labels))
	for i, l := range labels {
		out[i] = entity.LabelScore{Label: l, Score: weights[i] / total}
	}
	return out, nil
}

// AnswerQuestion returns the first sentence of the passage
func (m *MockConnector) AnswerQuestion(ctx context.Context, modelID, question, passage string) (*entity.ExtractedAnswer, error) {
	ctxzap.Info(ctx, "[MOCK] answering", zap.String("model_id", modelID))

	answer := strings.TrimSpace(passage)
	if i := strings.IndexAny(answer, ".!?"); i > 0 {
		answer = answer[:i+1]
	}
	return &entity.ExtractedAnswer{Answer: answer, Score: 0.9}, nil
}
