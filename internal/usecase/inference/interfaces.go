package inference

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/formatter"
)

// InferenceConnector runs dedicated hosted models
type InferenceConnector interface {
	Ready() error
	Summarize(ctx context.Context, modelID, text string, length entity.SummaryLength) (string, error)
	Classify(ctx context.Context, modelID, text string) ([]entity.LabelScore, error)
	ZeroShotClassify(ctx context.Context, modelID, text string, labels []string) ([]entity.LabelScore, error)
	AnswerQuestion(ctx context.Context, modelID, question, passage string) (*entity.ExtractedAnswer, error)
}

// TextGenerator is the general purpose model tried after every dedicated one
type TextGenerator interface {
	Ready() error
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
