package builder

import (
	"testing"

	"go.uber.org/zap"
)

func TestSetupLogger(t *testing.T) {
	logger, err := setupLogger("warn", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("error must be enabled at warn level")
	}

	if _, err := setupLogger("verbose", "local"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
