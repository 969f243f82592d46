package openrouter

import (
	"context"
	"fmt"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// EmbeddingConnector turns texts into vectors through an OpenAI-compatible
// embeddings endpoint
type EmbeddingConnector struct {
	config   config.OpenRouterConfig
	embedder embedding.Embedder
	logger   *zap.Logger
}

func NewEmbeddingConnector(ctx context.Context, cfg config.OpenRouterConfig, logger *zap.Logger) (*EmbeddingConnector, error) {
	c := &EmbeddingConnector{config: cfg, logger: logger}
	if !config.HasCredential(cfg.APIKey) {
		logger.Warn("OPENROUTER_API_KEY is not configured, document embedding is disabled")
		return c, nil
	}

	emb, err := openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbeddingModel,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	c.embedder = emb

	return c, nil
}

// NewEmbeddingConnectorWithEmbedder wraps an already constructed embedder
func NewEmbeddingConnectorWithEmbedder(cfg config.OpenRouterConfig, emb embedding.Embedder, logger *zap.Logger) *EmbeddingConnector {
	return &EmbeddingConnector{config: cfg, embedder: emb, logger: logger}
}

func (c *EmbeddingConnector) Ready() error {
	if c.embedder == nil {
		return fmt.Errorf("%w: OPENROUTER_API_KEY", entity.ErrCredentialMissing)
	}
	return nil
}

// Embed returns one vector per input text, in input order
func (c *EmbeddingConnector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding texts",
		zap.String("model", c.config.EmbeddingModel),
		zap.Int("count", len(texts)),
	)

	vectors, err := c.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %w", entity.ErrProviderFailure, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embed: got %d vectors for %d texts", entity.ErrProviderFailure, len(vectors), len(texts))
	}

	result := make([][]float32, len(vectors))
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: embed: empty vector at %d", entity.ErrProviderFailure, i)
		}
		result[i] = make([]float32, len(vec))
		for j, v := range vec {
			result[i][j] = float32(v)
		}
	}

	return result, nil
}
