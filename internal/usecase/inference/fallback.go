package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Candidate is one provider attempt for a task
type Candidate[T any] struct {
	Name    string
	Attempt func(ctx context.Context) (*T, error)
}

// runFallback evaluates candidates in order and returns the first result.
// Errors and nil results count as failures; candidates after the first
// success are never evaluated.
func runFallback[T any](ctx context.Context, task entity.Task, candidates []Candidate[T]) (*T, string, error) {
	allCredentialMissing := len(candidates) > 0

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		attemptCtx := logger.WithProvider(ctx, string(task), c.Name)

		res, err := c.Attempt(attemptCtx)
		if err == nil && res != nil {
			ctxzap.Info(attemptCtx, "provider candidate succeeded")
			return res, c.Name, nil
		}
		if err == nil {
			err = errors.New("empty result")
		}

		if !errors.Is(err, entity.ErrCredentialMissing) {
			allCredentialMissing = false
		}

		ctxzap.Warn(attemptCtx, "provider candidate failed", zap.Error(err))
	}

	if allCredentialMissing {
		return nil, "", fmt.Errorf("%w: no provider for %s has a credential", entity.ErrCredentialMissing, task)
	}
	return nil, "", fmt.Errorf("%w: %s", entity.ErrAllProvidersUnavailable, task)
}
