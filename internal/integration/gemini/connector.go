package gemini

import (
	"context"
	"fmt"
	"strings"

	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Connector is the secondary generative provider used when the dedicated
// inference models fail
type Connector struct {
	config config.GeminiConfig
	model  model.BaseChatModel
	logger *zap.Logger
}

// NewConnector builds a Gemini chat model. Without a usable API key the
// connector is still returned and reports ErrCredentialMissing on use.
func NewConnector(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Connector, error) {
	c := &Connector{config: cfg, logger: logger}
	if !config.HasCredential(cfg.APIKey) {
		logger.Warn("GEMINI_API_KEY is not configured, secondary provider is disabled")
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	cm, err := geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini model: %w", err)
	}
	c.model = cm

	return c, nil
}

// NewConnectorWithModel wraps an already constructed chat model
func NewConnectorWithModel(cfg config.GeminiConfig, cm model.BaseChatModel, logger *zap.Logger) *Connector {
	return &Connector{config: cfg, model: cm, logger: logger}
}

func (c *Connector) Ready() error {
	if c.model == nil {
		return fmt.Errorf("%w: GEMINI_API_KEY", entity.ErrCredentialMissing)
	}
	return nil
}

// Name is the model identifier reported to clients
func (c *Connector) Name() string {
	return "gemini/" + c.config.Model
}

// GenerateText sends a single prompt and returns the reply text
func (c *Connector) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	ctxzap.Debug(ctx, "requesting gemini completion", zap.String("model", c.config.Model))

	resp, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", entity.ErrProviderFailure, err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Content)
	}
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned an empty reply", entity.ErrProviderFailure)
	}

	return text, nil
}
