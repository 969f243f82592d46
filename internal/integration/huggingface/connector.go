package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/integration/common"
	pkgRetry "github.com/futig/ai-workbench/internal/pkg/retry"
	pkghttp "github.com/futig/ai-workbench/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const modelsEndpoint = "/models/"

type inferenceRequest struct {
	Inputs     any              `json:"inputs"`
	Parameters any              `json:"parameters,omitempty"`
	Options    inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type questionInput struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

// Connector calls the Hugging Face hosted inference API
type Connector struct {
	config    config.HuggingFaceConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.HuggingFaceConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Ready reports whether an inference token is configured
func (c *Connector) Ready() error {
	if !config.HasCredential(c.config.Token) {
		return fmt.Errorf("%w: HUGGINGFACE_TOKEN", entity.ErrCredentialMissing)
	}
	return nil
}

// Summarize runs a summarization model
func (c *Connector) Summarize(ctx context.Context, modelID, text string, length entity.SummaryLength) (string, error) {
	ctxzap.Debug(ctx, "summarizing via huggingface", zap.String("model_id", modelID))

	raw, err := c.infer(ctx, modelID, inferenceRequest{Inputs: text, Parameters: length})
	if err != nil {
		return "", err
	}

	summary, err := parseSummary(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, modelID, err)
	}

	return summary, nil
}

// Classify runs a text classification model
func (c *Connector) Classify(ctx context.Context, modelID, text string) ([]entity.LabelScore, error) {
	ctxzap.Debug(ctx, "classifying via huggingface", zap.String("model_id", modelID))

	raw, err := c.infer(ctx, modelID, inferenceRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	scores, err := parseLabelScores(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, modelID, err)
	}

	return scores, nil
}

// ZeroShotClassify scores text against caller supplied labels
func (c *Connector) ZeroShotClassify(ctx context.Context, modelID, text string, labels []string) ([]entity.LabelScore, error) {
	ctxzap.Debug(ctx, "zero-shot classifying via huggingface",
		zap.String("model_id", modelID),
		zap.Strings("labels", labels),
	)

	raw, err := c.infer(ctx, modelID, inferenceRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, err
	}

	scores, err := parseLabelScores(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, modelID, err)
	}

	return scores, nil
}

// AnswerQuestion extracts an answer span from passage
func (c *Connector) AnswerQuestion(ctx context.Context, modelID, question, passage string) (*entity.ExtractedAnswer, error) {
	ctxzap.Debug(ctx, "answering via huggingface", zap.String("model_id", modelID))

	raw, err := c.infer(ctx, modelID, inferenceRequest{
		Inputs: questionInput{Question: question, Context: passage},
	})
	if err != nil {
		return nil, err
	}

	answer, err := parseAnswer(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, modelID, err)
	}

	return answer, nil
}

// infer posts a request to a model endpoint, retrying while the model is
// loading or the network is flaky
func (c *Connector) infer(ctx context.Context, modelID string, req inferenceRequest) (json.RawMessage, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	req.Options.WaitForModel = true

	var raw json.RawMessage
	err := pkgRetry.Do(ctx, &c.config.Retry, pkghttp.IsTransient, func(ctx context.Context) error {
		raw = nil
		return c.connector.DoRequest(ctx, http.MethodPost, modelsEndpoint+modelID, req, &raw)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, modelID, err)
	}

	return raw, nil
}
