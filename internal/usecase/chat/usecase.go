package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase streams persona-conditioned chat completions, optionally with
// per-session memory
type ChatUsecase struct {
	chat      ChatConnector
	sessions  SessionStore
	validator *validator.Validator
	config    config.ChatConfig
	logger    *zap.Logger

	folds sync.WaitGroup
}

// NewUsecase creates a new chat use case
func NewUsecase(
	chat ChatConnector,
	sessions SessionStore,
	validator *validator.Validator,
	cfg config.ChatConfig,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		chat:      chat,
		sessions:  sessions,
		validator: validator,
		config:    cfg,
		logger:    logger,
	}
}

// Stream answers the conversation in req without keeping any state
func (uc *ChatUsecase) Stream(ctx context.Context, req *entity.ChatRequest) (*entity.ChatStream, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, err
	}

	persona := ResolvePersona(req.Persona)

	msgs := make([]entity.ChatMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, entity.ChatMessage{Role: entity.RoleSystem, Content: persona.SystemPrompt})
	msgs = append(msgs, req.Messages...)

	fragments, err := uc.chat.Stream(ctx, msgs)
	if err != nil {
		return nil, uc.streamError(err)
	}

	ctxzap.Info(ctx, "chat stream started",
		zap.String("persona", persona.Key),
		zap.Int("message_count", len(req.Messages)),
	)

	return &entity.ChatStream{Persona: persona, Fragments: fragments}, nil
}

// StreamWithMemory answers the latest user message using the session memory
// instead of client supplied history. The turn is remembered once the reply
// has been streamed completely.
func (uc *ChatUsecase) StreamWithMemory(ctx context.Context, req *entity.ChatRequest) (*entity.ChatStream, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, err
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	persona := ResolvePersona(req.Persona)
	latest := req.Messages[len(req.Messages)-1].Content

	mem := uc.sessions.GetOrCreate(ctx, sessionID)

	mem.Lock()
	msgs := promptFromMemory(persona, mem, latest)
	turns := len(mem.Turns)
	hasSummary := mem.Summary != ""
	mem.Unlock()

	upstream, err := uc.chat.Stream(ctx, msgs)
	if err != nil {
		return nil, uc.streamError(err)
	}

	ctxzap.Info(ctx, "chat stream with memory started",
		zap.String("persona", persona.Key),
		zap.String("session_id", sessionID),
		zap.Int("remembered_turns", turns),
		zap.Bool("has_summary", hasSummary),
	)

	out := make(chan entity.ChatFragment)
	uc.folds.Add(1)
	go func() {
		defer uc.folds.Done()
		uc.relay(ctx, mem, latest, upstream, out)
	}()

	return &entity.ChatStream{Persona: persona, SessionID: sessionID, Fragments: out}, nil
}

// relay forwards fragments as they arrive. The turn is recorded when the
// stream ends without error and out is closed before any summary update
// starts.
func (uc *ChatUsecase) relay(
	ctx context.Context,
	mem *entity.ConversationMemory,
	user string,
	upstream <-chan entity.ChatFragment,
	out chan<- entity.ChatFragment,
) {
	var reply strings.Builder
	failed := false

	for frag := range upstream {
		if frag.Err != nil {
			failed = true
		} else {
			reply.WriteString(frag.Content)
		}

		select {
		case out <- frag:
		case <-ctx.Done():
			close(out)
			return
		}
	}

	if failed || ctx.Err() != nil || reply.Len() == 0 {
		close(out)
		return
	}

	plan := uc.record(mem, user, reply.String())
	close(out)

	if plan != nil {
		uc.fold(ctx, mem, plan)
	}
}

func (uc *ChatUsecase) streamError(err error) error {
	return fmt.Errorf("start chat stream: %w", err)
}

// ResetSession forgets a session and reports whether it existed
func (uc *ChatUsecase) ResetSession(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, fmt.Errorf("%w: session_id", entity.ErrMissingField)
	}

	existed := uc.sessions.Delete(ctx, sessionID)
	ctxzap.Info(ctx, "chat session reset",
		zap.String("session_id", sessionID),
		zap.Bool("existed", existed),
	)
	return existed, nil
}

// Personas lists the available personas
func (uc *ChatUsecase) Personas() []entity.Persona {
	return append([]entity.Persona(nil), personas...)
}

// Wait blocks until every running relay, including pending summary updates,
// has finished
func (uc *ChatUsecase) Wait() {
	uc.folds.Wait()
}
