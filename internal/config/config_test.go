package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		RAGCfg: RAGConfig{
			ChunkSize:      1000,
			ChunkOverlap:   200,
			TopK:           4,
			EmbedBatchSize: 16,
		},
		ChatCfg: ChatConfig{
			MemoryTokenBudget: 2000,
			MinRecentTurns:    2,
		},
		FileUploadCfg: FileUploadConfig{
			MaxFileSize:   10,
			MaxUploadSize: 20,
		},
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_ReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.RAGCfg.ChunkOverlap = 1000
	cfg.RAGCfg.TopK = 0

	err := validateConfig(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "RAG_CHUNK_OVERLAP") || !strings.Contains(err.Error(), "RAG_TOP_K") {
		t.Errorf("expected both violations in error, got %q", err.Error())
	}
}

func TestHasCredential(t *testing.T) {
	cases := map[string]bool{
		"":                        false,
		"   ":                     false,
		"your_api_key":            false,
		"YOUR-OPENROUTER-KEY":     false,
		"gemini_api_key_here":     false,
		"changeme":                false,
		"xxxxxxxx":                false,
		"sk-or-v1-0123456789abcd": true,
		"hf_AbCdEf123":            true,
	}

	for secret, want := range cases {
		if got := HasCredential(secret); got != want {
			t.Errorf("HasCredential(%q) = %v, want %v", secret, got, want)
		}
	}
}

func TestGetEnvFile(t *testing.T) {
	if got := getEnvFile("prod"); got != ".env.prod" {
		t.Errorf("unexpected env file for prod: %s", got)
	}
	if got := getEnvFile("dev"); got != ".env.local" {
		t.Errorf("unexpected env file for dev: %s", got)
	}
	if got := getEnvFile("staging"); got != ".env.staging" {
		t.Errorf("unexpected env file for staging: %s", got)
	}
}
