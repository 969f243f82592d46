package inference

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
)

type InferenceUsecase interface {
	Summarize(ctx context.Context, req *entity.SummarizeRequest) (*entity.SummarizeResult, error)
	Classify(ctx context.Context, req *entity.ClassifyRequest) (*entity.ClassifyResult, error)
	Answer(ctx context.Context, req *entity.QnARequest) (*entity.QnAResult, error)
	Export(ctx context.Context, req *entity.ExportRequest) (*entity.ExportedFile, error)
	Models() *entity.ModelsResponse
}
