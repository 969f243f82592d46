package openrouter

import (
	"context"
	"errors"
	"fmt"
	"io"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatConnector talks to an OpenAI-compatible chat completion gateway
type ChatConnector struct {
	config config.OpenRouterConfig
	model  model.BaseChatModel
	logger *zap.Logger
}

// NewChatConnector builds the gateway client. Without a usable API key the
// connector is still returned and reports ErrCredentialMissing on use.
func NewChatConnector(ctx context.Context, cfg config.OpenRouterConfig, logger *zap.Logger) (*ChatConnector, error) {
	c := &ChatConnector{config: cfg, logger: logger}
	if !config.HasCredential(cfg.APIKey) {
		logger.Warn("OPENROUTER_API_KEY is not configured, chat completions are disabled")
		return c, nil
	}

	cm, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ChatModel,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	c.model = cm

	return c, nil
}

// NewChatConnectorWithModel wraps an already constructed chat model
func NewChatConnectorWithModel(cfg config.OpenRouterConfig, cm model.BaseChatModel, logger *zap.Logger) *ChatConnector {
	return &ChatConnector{config: cfg, model: cm, logger: logger}
}

func (c *ChatConnector) Ready() error {
	if c.model == nil {
		return fmt.Errorf("%w: OPENROUTER_API_KEY", entity.ErrCredentialMissing)
	}
	return nil
}

// Complete runs a non-streaming completion and returns the reply text
func (c *ChatConnector) Complete(ctx context.Context, msgs []entity.ChatMessage) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	ctxzap.Debug(ctx, "requesting chat completion",
		zap.String("model", c.config.ChatModel),
		zap.Int("message_count", len(msgs)),
	)

	resp, err := c.model.Generate(ctx, toSchemaMessages(msgs))
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", entity.ErrProviderFailure, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: chat completion returned no message", entity.ErrProviderFailure)
	}

	return resp.Content, nil
}

// Stream starts a streaming completion. Fragments are sent on an unbuffered
// channel that is closed after the last one; a failure while streaming is
// delivered as a final fragment with Err set. The producer stops as soon as
// ctx is cancelled.
func (c *ChatConnector) Stream(ctx context.Context, msgs []entity.ChatMessage) (<-chan entity.ChatFragment, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "starting chat stream",
		zap.String("model", c.config.ChatModel),
		zap.Int("message_count", len(msgs)),
	)

	sr, err := c.model.Stream(ctx, toSchemaMessages(msgs))
	if err != nil {
		return nil, fmt.Errorf("%w: chat stream: %w", entity.ErrProviderFailure, err)
	}

	out := make(chan entity.ChatFragment)
	go pump(ctx, sr, out)

	return out, nil
}

func pump(ctx context.Context, sr *schema.StreamReader[*schema.Message], out chan<- entity.ChatFragment) {
	defer close(out)
	defer sr.Close()

	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			select {
			case out <- entity.ChatFragment{Err: fmt.Errorf("%w: chat stream: %w", entity.ErrProviderFailure, err)}:
			case <-ctx.Done():
			}
			return
		}

		if msg == nil || msg.Content == "" {
			continue
		}

		select {
		case out <- entity.ChatFragment{Content: msg.Content}:
		case <-ctx.Done():
			ctxzap.Debug(ctx, "chat stream consumer went away", zap.Error(ctx.Err()))
			return
		}
	}
}
