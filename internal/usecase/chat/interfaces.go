package chat

import (
	"context"

	"github.com/futig/ai-workbench/internal/entity"
)

type ChatConnector interface {
	Ready() error
	Complete(ctx context.Context, msgs []entity.ChatMessage) (string, error)
	Stream(ctx context.Context, msgs []entity.ChatMessage) (<-chan entity.ChatFragment, error)
}

type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionID string) *entity.ConversationMemory
	Delete(ctx context.Context, sessionID string) bool
}
