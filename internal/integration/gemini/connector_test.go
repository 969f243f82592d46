package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"go.uber.org/zap"
)

type blankModel struct{ MockChatModel }

func (blankModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("   ", nil), nil
}

func TestConnector_GenerateText(t *testing.T) {
	c := NewConnectorWithModel(config.GeminiConfig{Model: "gemini-test"}, NewMockChatModel(), zap.NewNop())

	got, err := c.GenerateText(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `"summary"`) {
		t.Errorf("unexpected reply %q", got)
	}
	if c.Name() != "gemini/gemini-test" {
		t.Errorf("unexpected name %q", c.Name())
	}
}

func TestConnector_EmptyReplyIsFailure(t *testing.T) {
	c := NewConnectorWithModel(config.GeminiConfig{}, blankModel{}, zap.NewNop())

	if _, err := c.GenerateText(context.Background(), "x"); !errors.Is(err, entity.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestConnector_MissingCredential(t *testing.T) {
	c, err := NewConnector(context.Background(), config.GeminiConfig{APIKey: ""}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GenerateText(context.Background(), "x"); !errors.Is(err, entity.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
}
