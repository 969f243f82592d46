package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/ai-workbench/internal/api"
	chatapi "github.com/futig/ai-workbench/internal/api/chat"
	inferenceapi "github.com/futig/ai-workbench/internal/api/inference"
	ragapi "github.com/futig/ai-workbench/internal/api/rag"
	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/integration/gemini"
	"github.com/futig/ai-workbench/internal/integration/huggingface"
	"github.com/futig/ai-workbench/internal/integration/openrouter"
	"github.com/futig/ai-workbench/internal/pkg/extractor"
	"github.com/futig/ai-workbench/internal/pkg/formatter"
	"github.com/futig/ai-workbench/internal/pkg/splitter"
	"github.com/futig/ai-workbench/internal/pkg/validator"
	"github.com/futig/ai-workbench/internal/repository"
	"github.com/futig/ai-workbench/internal/usecase/chat"
	"github.com/futig/ai-workbench/internal/usecase/inference"
	"github.com/futig/ai-workbench/internal/usecase/rag"
	"go.uber.org/zap"
)

// connectors groups every remote provider the use cases depend on
type connectors struct {
	hf        inference.InferenceConnector
	generator *gemini.Connector
	chat      *openrouter.ChatConnector
	embedder  *openrouter.EmbeddingConnector
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	if err := extractor.ApplyLicense(cfg.UnidocLicenseKey); err != nil {
		return nil, fmt.Errorf("apply document license: %w", err)
	}

	conns, err := setupConnectors(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup connectors: %w", err)
	}

	// Initialize repositories
	documentRepo := repository.NewDocumentMemory()
	sessionRepo := repository.NewSessionMemory(cfg.ChatCfg.SessionTTL, cfg.ChatCfg.SessionCleanupInterval)
	logger.Info("Repositories initialized")

	// Initialize helpers
	textSplitter := splitter.New(splitter.Config{
		ChunkSize:    cfg.RAGCfg.ChunkSize,
		ChunkOverlap: cfg.RAGCfg.ChunkOverlap,
	})
	requestValidator := validator.New(cfg.FileUploadCfg)

	// Initialize use cases
	ragUC := rag.NewUsecase(
		documentRepo,
		extractor.New(),
		textSplitter,
		conns.embedder,
		conns.chat,
		cfg.RAGCfg,
		logger,
	)

	inferenceUC := inference.NewUsecase(
		conns.hf,
		conns.generator,
		formatter.NewFactory(),
		requestValidator,
		logger,
	)

	chatUC := chat.NewUsecase(
		conns.chat,
		sessionRepo,
		requestValidator,
		cfg.ChatCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	ragHandler := ragapi.NewHandler(ragUC, cfg.FileUploadCfg, requestValidator)
	inferenceHandler := inferenceapi.NewHandler(inferenceUC)
	chatHandler := chatapi.NewHandler(chatUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(ragHandler, inferenceHandler, chatHandler, api.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		DocsSpecPath:   cfg.DocsSpecPath,
	}, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  2 * cfg.ServerReadTimeout,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		chat:   chatUC,
		logger: logger,
	}, nil
}

// setupConnectors builds the remote providers, or deterministic stand-ins
// for them when mocks are enabled
func setupConnectors(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*connectors, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		return &connectors{
			hf:        huggingface.NewMockConnector(logger),
			generator: gemini.NewConnectorWithModel(cfg.GeminiCfg, gemini.NewMockChatModel(), logger),
			chat:      openrouter.NewChatConnectorWithModel(cfg.OpenRouterCfg, openrouter.NewMockChatModel(), logger),
			embedder:  openrouter.NewEmbeddingConnectorWithEmbedder(cfg.OpenRouterCfg, openrouter.NewMockEmbedder(), logger),
		}, nil
	}

	logger.Info("Using real connectors for external services")

	generator, err := gemini.NewConnector(ctx, cfg.GeminiCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	chatConn, err := openrouter.NewChatConnector(ctx, cfg.OpenRouterCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("openrouter chat: %w", err)
	}

	embedder, err := openrouter.NewEmbeddingConnector(ctx, cfg.OpenRouterCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("openrouter embeddings: %w", err)
	}

	hf := huggingface.NewConnector(cfg.HuggingFaceCfg, logger)

	for name, ready := range map[string]func() error{
		"huggingface": hf.Ready,
		"gemini":      generator.Ready,
		"openrouter":  chatConn.Ready,
	} {
		if err := ready(); err != nil {
			logger.Warn("Provider is not configured, requests depending on it will fail over or be rejected",
				zap.String("provider", name),
				zap.Error(err),
			)
		}
	}

	return &connectors{
		hf:        hf,
		generator: generator,
		chat:      chatConn,
		embedder:  embedder,
	}, nil
}
