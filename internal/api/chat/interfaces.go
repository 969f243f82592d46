package chat

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
)

type ChatUsecase interface {
	Stream(ctx context.Context, req *entity.ChatRequest) (*entity.ChatStream, error)
	StreamWithMemory(ctx context.Context, req *entity.ChatRequest) (*entity.ChatStream, error)
	ResetSession(ctx context.Context, sessionID string) (bool, error)
	Personas() []entity.Persona
}
