package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	summaryTimeout = 60 * time.Second

	summarizerInstruction = "You maintain a running summary of a conversation between a user and an assistant. " +
		"Merge the existing summary with the new turns into one concise summary written in the third person. " +
		"Keep names, facts, preferences and open questions. Reply with the summary only."
)

// estimateTokens approximates model tokens as a quarter of the rune count
func estimateTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}

func turnTokens(t entity.ChatTurn) int {
	return estimateTokens(t.User.Content) + estimateTokens(t.Assistant.Content)
}

// memoryTokens must be called with mem locked
func memoryTokens(mem *entity.ConversationMemory) int {
	total := estimateTokens(mem.Summary)
	for _, t := range mem.Turns {
		total += turnTokens(t)
	}
	return total
}

// promptFromMemory builds the model input for a session: persona prompt with
// the running summary, recent turns verbatim, then the new user message.
// Must be called with mem locked.
func promptFromMemory(persona entity.Persona, mem *entity.ConversationMemory, latest string) []entity.ChatMessage {
	system := persona.SystemPrompt
	if mem.Summary != "" {
		system += "\n\nSummary of the earlier conversation:\n" + mem.Summary
	}

	msgs := make([]entity.ChatMessage, 0, 2+2*len(mem.Turns))
	msgs = append(msgs, entity.ChatMessage{Role: entity.RoleSystem, Content: system})
	for _, t := range mem.Turns {
		msgs = append(msgs, t.User, t.Assistant)
	}
	msgs = append(msgs, entity.ChatMessage{Role: entity.RoleUser, Content: latest})

	return msgs
}

// foldPlan describes the oldest turns selected for summarization
type foldPlan struct {
	count   int
	turns   []entity.ChatTurn
	summary string
}

// record appends a finished turn and, when the history exceeds the token
// budget, reserves the oldest turns for folding. The returned plan is nil
// when nothing has to be folded or another fold is already running.
func (uc *ChatUsecase) record(mem *entity.ConversationMemory, user, reply string) *foldPlan {
	mem.Lock()
	defer mem.Unlock()

	now := time.Now()
	mem.Turns = append(mem.Turns, entity.ChatTurn{
		User:      entity.ChatMessage{ID: uuid.NewString(), Role: entity.RoleUser, Content: user, Timestamp: now},
		Assistant: entity.ChatMessage{ID: uuid.NewString(), Role: entity.RoleAssistant, Content: reply, Timestamp: now},
	})
	mem.UpdatedAt = now

	if mem.Folding {
		return nil
	}

	total := memoryTokens(mem)
	n := 0
	for total > uc.config.MemoryTokenBudget && len(mem.Turns)-n > uc.config.MinRecentTurns {
		total -= turnTokens(mem.Turns[n])
		n++
	}
	if n == 0 {
		return nil
	}

	mem.Folding = true
	return &foldPlan{
		count:   n,
		turns:   append([]entity.ChatTurn(nil), mem.Turns[:n]...),
		summary: mem.Summary,
	}
}

// fold summarizes the reserved turns without holding the session lock, then
// replaces them with the new summary. Turns are only ever appended while
// Folding is set, so the reserved turns are still the oldest ones.
func (uc *ChatUsecase) fold(ctx context.Context, mem *entity.ConversationMemory, plan *foldPlan) {
	ctx, cancel := context.WithTimeout(logger.Detach(ctx), summaryTimeout)
	defer cancel()

	summary, err := uc.chat.Complete(ctx, summaryPrompt(plan.summary, plan.turns))
	summary = strings.TrimSpace(summary)

	mem.Lock()
	defer mem.Unlock()

	switch {
	case err != nil:
		ctxzap.Warn(ctx, "failed to update conversation summary, keeping the previous one",
			zap.String("session_id", mem.SessionID),
			zap.Error(err),
		)
	case summary == "":
		ctxzap.Warn(ctx, "conversation summary came back empty, keeping the previous one",
			zap.String("session_id", mem.SessionID),
		)
	default:
		mem.Summary = summary
	}

	mem.Turns = append([]entity.ChatTurn(nil), mem.Turns[plan.count:]...)
	mem.Folding = false

	ctxzap.Info(ctx, "conversation memory folded",
		zap.String("session_id", mem.SessionID),
		zap.Int("folded_turns", plan.count),
		zap.Int("kept_turns", len(mem.Turns)),
	)
}

func summaryPrompt(existing string, turns []entity.ChatTurn) []entity.ChatMessage {
	var b strings.Builder
	if existing != "" {
		fmt.Fprintf(&b, "Existing summary:\n%s\n\n", existing)
	}
	b.WriteString("New turns:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.User.Content, t.Assistant.Content)
	}

	return []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: summarizerInstruction},
		{Role: entity.RoleUser, Content: b.String()},
	}
}
