package rag

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
)

type RAGUsecase interface {
	Ingest(ctx context.Context, file *entity.UploadedFile) (*entity.IngestResult, error)
	Answer(ctx context.Context, question string) (*entity.AnswerResult, error)
	Clear(ctx context.Context) error
	Status(ctx context.Context) *entity.StoreStatus
}
