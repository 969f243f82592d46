package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// InferenceUsecase serves summarization, classification and question
// answering through an ordered list of providers
type InferenceUsecase struct {
	hf         InferenceConnector
	generator  TextGenerator
	formatters FormatterFactory
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewUsecase creates a new inference use case
func NewUsecase(
	hf InferenceConnector,
	generator TextGenerator,
	formatters FormatterFactory,
	validator *validator.Validator,
	logger *zap.Logger,
) *InferenceUsecase {
	return &InferenceUsecase{
		hf:         hf,
		generator:  generator,
		formatters: formatters,
		validator:  validator,
		logger:     logger,
	}
}

type summaryOutput struct {
	text string
}

// Summarize condenses text with the requested model, falling back through
// the remaining models and the generator
func (uc *InferenceUsecase) Summarize(ctx context.Context, req *entity.SummarizeRequest) (*entity.SummarizeResult, error) {
	if err := uc.validator.ValidateSummarize(req); err != nil {
		return nil, err
	}
	if req.Model != "" && !summarizationModels.has(req.Model) {
		return nil, fmt.Errorf("%w: summarization model %q", entity.ErrUnknownModel, req.Model)
	}

	length := summaryLengths[req.SummaryType]

	var candidates []Candidate[summaryOutput]
	for _, m := range summarizationModels.ordered(req.Model) {
		candidates = append(candidates, Candidate[summaryOutput]{
			Name: m.Key,
			Attempt: func(ctx context.Context) (*summaryOutput, error) {
				s, err := uc.hf.Summarize(ctx, m.ID, req.Text, length)
				if err != nil {
					return nil, err
				}
				return nonEmptySummary(s)
			},
		})
	}
	candidates = append(candidates, Candidate[summaryOutput]{
		Name: uc.generator.Name(),
		Attempt: func(ctx context.Context) (*summaryOutput, error) {
			var out generatedSummary
			if err := uc.generate(ctx, summarizePrompt(req.Text, length), &out); err != nil {
				return nil, err
			}
			return nonEmptySummary(out.Summary)
		},
	})

	out, model, err := runFallback(ctx, entity.TaskSummarization, candidates)
	if err != nil {
		return nil, err
	}

	res := normalizeSummary(req.Text, out.text, model)

	ctxzap.Info(ctx, "text summarized",
		zap.String("model", model),
		zap.Int("original_words", res.OriginalWordCount),
		zap.Int("summary_words", res.WordCount),
	)

	return res, nil
}

func nonEmptySummary(s string) (*summaryOutput, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty summary")
	}
	return &summaryOutput{text: s}, nil
}

type classificationOutput struct {
	scores []entity.LabelScore
}

// Classify labels text with the requested model
func (uc *InferenceUsecase) Classify(ctx context.Context, req *entity.ClassifyRequest) (*entity.ClassifyResult, error) {
	if err := uc.validator.ValidateClassify(req); err != nil {
		return nil, err
	}
	if !classificationModels.has(req.Model) {
		return nil, fmt.Errorf("%w: classification model %q", entity.ErrUnknownModel, req.Model)
	}

	zeroShotLabels := req.CustomLabels
	if len(zeroShotLabels) == 0 {
		zeroShotLabels = defaultZeroShotLabels
	}

	var candidates []Candidate[classificationOutput]
	for _, m := range classificationModels.ordered(req.Model) {
		candidates = append(candidates, Candidate[classificationOutput]{
			Name: m.Key,
			Attempt: func(ctx context.Context) (*classificationOutput, error) {
				var (
					scores []entity.LabelScore
					err    error
				)
				if m.Key == zeroShotKey {
					scores, err = uc.hf.ZeroShotClassify(ctx, m.ID, req.Text, zeroShotLabels)
				} else {
					scores, err = uc.hf.Classify(ctx, m.ID, req.Text)
				}
				if err != nil {
					return nil, err
				}
				return nonEmptyScores(scores)
			},
		})
	}

	generatorLabels := zeroShotLabels
	if hint, ok := labelHints[req.Model]; ok {
		generatorLabels = hint
	}
	candidates = append(candidates, Candidate[classificationOutput]{
		Name: uc.generator.Name(),
		Attempt: func(ctx context.Context) (*classificationOutput, error) {
			var out generatedClassification
			if err := uc.generate(ctx, classifyPrompt(req.Text, generatorLabels), &out); err != nil {
				return nil, err
			}
			return nonEmptyScores(out.scores())
		},
	})

	out, model, err := runFallback(ctx, entity.TaskClassification, candidates)
	if err != nil {
		return nil, err
	}

	res := normalizeClassification(out.scores, model)

	ctxzap.Info(ctx, "text classified",
		zap.String("model", model),
		zap.String("label", res.Label),
		zap.Int("confidence", res.Confidence),
	)

	return res, nil
}

func nonEmptyScores(scores []entity.LabelScore) (*classificationOutput, error) {
	if len(scores) == 0 {
		return nil, errors.New("no labels returned")
	}
	return &classificationOutput{scores: scores}, nil
}

type answerOutput struct {
	answer string
}

// Answer answers a question from the given context. Without context the
// extractive models are skipped and the generator answers on its own.
func (uc *InferenceUsecase) Answer(ctx context.Context, req *entity.QnARequest) (*entity.QnAResult, error) {
	if err := uc.validator.ValidateQnA(req); err != nil {
		return nil, err
	}

	var candidates []Candidate[answerOutput]
	if req.Context != "" {
		for _, m := range qnaModels.ordered("") {
			candidates = append(candidates, Candidate[answerOutput]{
				Name: m.Key,
				Attempt: func(ctx context.Context) (*answerOutput, error) {
					a, err := uc.hf.AnswerQuestion(ctx, m.ID, req.Question, req.Context)
					if err != nil {
						return nil, err
					}
					return nonEmptyAnswer(a.Answer)
				},
			})
		}
	}
	candidates = append(candidates, Candidate[answerOutput]{
		Name: uc.generator.Name(),
		Attempt: func(ctx context.Context) (*answerOutput, error) {
			var out generatedAnswer
			if err := uc.generate(ctx, answerPrompt(req.Question, req.Context), &out); err != nil {
				return nil, err
			}
			return nonEmptyAnswer(out.Answer)
		},
	})

	out, model, err := runFallback(ctx, entity.TaskQuestionAnswer, candidates)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("model", model),
		zap.Bool("with_context", req.Context != ""),
	)

	return normalizeAnswer(req.Question, req.Context, out.answer, model), nil
}

func nonEmptyAnswer(a string) (*answerOutput, error) {
	a = strings.TrimSpace(a)
	if a == "" {
		return nil, errors.New("empty answer")
	}
	return &answerOutput{answer: a}, nil
}

// generate asks the generator for a JSON reply and decodes it into v
func (uc *InferenceUsecase) generate(ctx context.Context, prompt string, v any) error {
	reply, err := uc.generator.GenerateText(ctx, prompt)
	if err != nil {
		return err
	}
	if err := parseJSONReply(reply, v); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrProviderFailure, err)
	}
	return nil
}

// Models lists the model keys accepted by each task
func (uc *InferenceUsecase) Models() *entity.ModelsResponse {
	return &entity.ModelsResponse{
		Summarization:  summarizationModels.list(),
		Classification: classificationModels.list(),
		QuestionAnswer: qnaModels.list(),
	}
}

// Export renders a summary as a downloadable document
func (uc *InferenceUsecase) Export(ctx context.Context, req *entity.ExportRequest) (*entity.ExportedFile, error) {
	if err := uc.validator.ValidateExport(req); err != nil {
		return nil, err
	}

	f, err := uc.formatters.Create(req.Format)
	if err != nil {
		return nil, err
	}

	content, err := f.Format(req.Title, req.Summary)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Format, err)
	}

	base := "summary"
	if req.Title != "" {
		base = validator.SanitizeFilename(req.Title)
	}
	filename := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102-150405"), f.FileExtension())

	ctxzap.Info(ctx, "summary exported",
		zap.String("format", string(req.Format)),
		zap.Int("size", len(content)),
	)

	return &entity.ExportedFile{
		Filename:    filename,
		ContentType: f.ContentType(),
		Content:     content,
	}, nil
}
