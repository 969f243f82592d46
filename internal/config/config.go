package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/ai-workbench/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"3m"`
	RequestTimeout     time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"2m"`

	// External provider configurations
	HuggingFaceCfg HuggingFaceConfig `envPrefix:"HUGGINGFACE_"`
	GeminiCfg      GeminiConfig      `envPrefix:"GEMINI_"`
	OpenRouterCfg  OpenRouterConfig  `envPrefix:"OPENROUTER_"`

	// Document pipeline and chat configuration
	RAGCfg  RAGConfig  `envPrefix:"RAG_"`
	ChatCfg ChatConfig `envPrefix:"CHAT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// License key for the unidoc PDF/DOCX libraries
	UnidocLicenseKey string `env:"UNIDOC_LICENSE_API_KEY"`

	// Path of the OpenAPI document served under /docs
	DocsSpecPath string `env:"DOCS_SPEC_PATH" envDefault:"docs/swagger.yaml"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type HuggingFaceConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GeminiConfig struct {
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"gemini-2.0-flash"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

type OpenRouterConfig struct {
	APIKey         string        `env:"API_KEY"`
	BaseURL        string        `env:"BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	ChatModel      string        `env:"CHAT_MODEL" envDefault:"openai/gpt-4o-mini"`
	EmbeddingModel string        `env:"EMBEDDING_MODEL" envDefault:"openai/text-embedding-3-small"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"90s"`
}

type RAGConfig struct {
	ChunkSize      int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP" envDefault:"200"`
	TopK           int `env:"TOP_K" envDefault:"4"`
	EmbedBatchSize int `env:"EMBED_BATCH_SIZE" envDefault:"16"`
}

type ChatConfig struct {
	MemoryTokenBudget      int           `env:"MEMORY_TOKEN_BUDGET" envDefault:"2000"`
	MinRecentTurns         int           `env:"MIN_RECENT_TURNS" envDefault:"2"`
	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api-inference.huggingface.co"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"12582912"` // 12 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.RAGCfg.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_SIZE must be positive, got %d", cfg.RAGCfg.ChunkSize))
	}

	if cfg.RAGCfg.ChunkOverlap < 0 || cfg.RAGCfg.ChunkOverlap >= cfg.RAGCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf("RAG_CHUNK_OVERLAP must be between 0 and RAG_CHUNK_SIZE(%d), got %d", cfg.RAGCfg.ChunkSize, cfg.RAGCfg.ChunkOverlap))
	}

	if cfg.RAGCfg.TopK < 1 || cfg.RAGCfg.TopK > 50 {
		errors = append(errors, fmt.Sprintf("RAG_TOP_K must be between 1 and 50, got %d", cfg.RAGCfg.TopK))
	}

	if cfg.RAGCfg.EmbedBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("RAG_EMBED_BATCH_SIZE must be positive, got %d", cfg.RAGCfg.EmbedBatchSize))
	}

	if cfg.ChatCfg.MemoryTokenBudget < 100 {
		errors = append(errors, fmt.Sprintf("CHAT_MEMORY_TOKEN_BUDGET must be at least 100, got %d", cfg.ChatCfg.MemoryTokenBudget))
	}

	if cfg.ChatCfg.MinRecentTurns < 1 {
		errors = append(errors, fmt.Sprintf("CHAT_MIN_RECENT_TURNS must be positive, got %d", cfg.ChatCfg.MinRecentTurns))
	}

	if cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxUploadSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE(%d) must not exceed FILE_UPLOAD_MAX_UPLOAD_SIZE(%d)", cfg.FileUploadCfg.MaxFileSize, cfg.FileUploadCfg.MaxUploadSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

var placeholderSecrets = []string{"changeme", "placeholder", "replace-me", "none", "null"}

// HasCredential reports whether a secret looks like a real value rather than
// an empty or template placeholder.
func HasCredential(secret string) bool {
	s := strings.ToLower(strings.TrimSpace(secret))
	if s == "" {
		return false
	}

	if strings.HasPrefix(s, "your_") || strings.HasPrefix(s, "your-") ||
		strings.HasSuffix(s, "_here") || strings.HasSuffix(s, "-here") ||
		strings.Trim(s, "x") == "" {
		return false
	}

	for _, p := range placeholderSecrets {
		if s == p {
			return false
		}
	}

	return true
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
