package inference

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/formatter"
	"github.com/futig/ai-workbench/internal/pkg/validator"
	"go.uber.org/zap"
)

type fakeHF struct {
	failIDs  map[string]error
	summary  string
	scores   []entity.LabelScore
	answer   string
	calls    []string
	lastLen  entity.SummaryLength
	zsLabels []string
}

func (f *fakeHF) Ready() error { return nil }

func (f *fakeHF) fail(modelID string) error {
	f.calls = append(f.calls, modelID)
	return f.failIDs[modelID]
}

func (f *fakeHF) Summarize(_ context.Context, modelID, _ string, length entity.SummaryLength) (string, error) {
	f.lastLen = length
	if err := f.fail(modelID); err != nil {
		return "", err
	}
	return f.summary, nil
}

func (f *fakeHF) Classify(_ context.Context, modelID, _ string) ([]entity.LabelScore, error) {
	if err := f.fail(modelID); err != nil {
		return nil, err
	}
	return f.scores, nil
}

func (f *fakeHF) ZeroShotClassify(_ context.Context, modelID, _ string, labels []string) ([]entity.LabelScore, error) {
	f.zsLabels = labels
	if err := f.fail(modelID); err != nil {
		return nil, err
	}
	return f.scores, nil
}

func (f *fakeHF) AnswerQuestion(_ context.Context, modelID, _, _ string) (*entity.ExtractedAnswer, error) {
	if err := f.fail(modelID); err != nil {
		return nil, err
	}
	return &entity.ExtractedAnswer{Answer: f.answer, Score: 0.4}, nil
}

type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Ready() error { return nil }
func (f *fakeGenerator) Name() string { return "gemini/test" }

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.reply, f.err
}

func newTestUsecase(hf *fakeHF, gen *fakeGenerator) *InferenceUsecase {
	v := validator.New(config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 1 << 21})
	return NewUsecase(hf, gen, formatter.NewFactory(), v, zap.NewNop())
}

var longText = strings.TrimSpace(strings.Repeat("word ", 100))

func failing(ids ...string) map[string]error {
	m := make(map[string]error, len(ids))
	for _, id := range ids {
		m[id] = errors.New("model unavailable")
	}
	return m
}

func TestRunFallback_StopsAtFirstSuccess(t *testing.T) {
	var evaluated []string
	mk := func(name string, ok bool) Candidate[string] {
		return Candidate[string]{
			Name: name,
			Attempt: func(context.Context) (*string, error) {
				evaluated = append(evaluated, name)
				if !ok {
					return nil, errors.New("down")
				}
				v := name + " result"
				return &v, nil
			},
		}
	}

	res, name, err := runFallback(context.Background(), entity.TaskSummarization, []Candidate[string]{
		mk("a", false), mk("b", true), mk("c", true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *res != "b result" || name != "b" {
		t.Errorf("got %q from %q", *res, name)
	}
	if strings.Join(evaluated, ",") != "a,b" {
		t.Errorf("evaluated %v, want [a b]", evaluated)
	}
}

func TestRunFallback_NilResultIsFailure(t *testing.T) {
	_, _, err := runFallback(context.Background(), entity.TaskSummarization, []Candidate[string]{
		{Name: "nil", Attempt: func(context.Context) (*string, error) { return nil, nil }},
	})
	if !errors.Is(err, entity.ErrAllProvidersUnavailable) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
}

func TestRunFallback_AllCredentialsMissing(t *testing.T) {
	missing := func(context.Context) (*string, error) { return nil, entity.ErrCredentialMissing }
	_, _, err := runFallback(context.Background(), entity.TaskClassification, []Candidate[string]{
		{Name: "a", Attempt: missing},
		{Name: "b", Attempt: missing},
	})
	if !errors.Is(err, entity.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestCompressionRatio(t *testing.T) {
	cases := []struct{ orig, sum, want int }{
		{100, 20, 80},
		{0, 5, 0},
		{3, 1, 67},
		{10, 10, 0},
	}
	for _, tc := range cases {
		if got := compressionRatio(tc.orig, tc.sum); got != tc.want {
			t.Errorf("compressionRatio(%d, %d) = %d, want %d", tc.orig, tc.sum, got, tc.want)
		}
	}
}

func TestSummarize_ShortTextRejectedBeforeProviders(t *testing.T) {
	hf := &fakeHF{}
	gen := &fakeGenerator{}
	uc := newTestUsecase(hf, gen)

	_, err := uc.Summarize(context.Background(), &entity.SummarizeRequest{Text: "This is far too short."})
	if !errors.Is(err, entity.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(hf.calls) != 0 || gen.calls != 0 {
		t.Fatal("providers must not be called for invalid input")
	}
}

func TestSummarize_UnknownModel(t *testing.T) {
	uc := newTestUsecase(&fakeHF{}, &fakeGenerator{})

	_, err := uc.Summarize(context.Background(), &entity.SummarizeRequest{Text: longText, Model: "gpt-9"})
	if !errors.Is(err, entity.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestSummarize_PreferredModelThenFallback(t *testing.T) {
	hf := &fakeHF{
		failIDs: failing("google/pegasus-xsum"),
		summary: strings.TrimSpace(strings.Repeat("word ", 20)),
	}
	uc := newTestUsecase(hf, &fakeGenerator{})

	res, err := uc.Summarize(context.Background(), &entity.SummarizeRequest{
		Text:        longText,
		Model:       "pegasus-xsum",
		SummaryType: entity.SummaryBrief,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hf.calls) != 2 || hf.calls[0] != "google/pegasus-xsum" || hf.calls[1] != "facebook/bart-large-cnn" {
		t.Errorf("unexpected call order %v", hf.calls)
	}
	if res.Model != "bart-large-cnn" {
		t.Errorf("model = %q", res.Model)
	}
	if res.OriginalWordCount != 100 || res.WordCount != 20 || res.CompressionRatio != 80 {
		t.Errorf("unexpected counts %+v", res)
	}
	if hf.lastLen != summaryLengths[entity.SummaryBrief] {
		t.Errorf("unexpected length parameters %+v", hf.lastLen)
	}
}

func TestSummarize_GeneratorFallbackParsesFencedJSON(t *testing.T) {
	hf := &fakeHF{failIDs: failing(
		"facebook/bart-large-cnn", "sshleifer/distilbart-cnn-12-6", "google/pegasus-xsum", "google-t5/t5-small",
	)}
	gen := &fakeGenerator{reply: "Sure!\n```json\n{\"summary\": \"A compact summary.\"}\n```"}
	uc := newTestUsecase(hf, gen)

	res, err := uc.Summarize(context.Background(), &entity.SummarizeRequest{Text: longText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary != "A compact summary." || res.Model != "gemini/test" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(hf.calls) != 4 {
		t.Errorf("expected every dedicated model to be tried, got %v", hf.calls)
	}
}

func TestSummarize_AllProvidersFail(t *testing.T) {
	hf := &fakeHF{failIDs: failing(
		"facebook/bart-large-cnn", "sshleifer/distilbart-cnn-12-6", "google/pegasus-xsum", "google-t5/t5-small",
	)}
	gen := &fakeGenerator{reply: "I cannot help with that."}
	uc := newTestUsecase(hf, gen)

	_, err := uc.Summarize(context.Background(), &entity.SummarizeRequest{Text: longText})
	if !errors.Is(err, entity.ErrAllProvidersUnavailable) {
		t.Fatalf("expected ErrAllProvidersUnavailable, got %v", err)
	}
}

func TestClassify_Normalization(t *testing.T) {
	hf := &fakeHF{scores: []entity.LabelScore{
		{Label: "NEGATIVE", Score: 0.124},
		{Label: "POSITIVE", Score: 0.876},
	}}
	uc := newTestUsecase(hf, &fakeGenerator{})

	res, err := uc.Classify(context.Background(), &entity.ClassifyRequest{Text: "great food", Model: "sentiment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label != "POSITIVE" || res.Confidence != 88 {
		t.Errorf("unexpected top label %+v", res)
	}
	if len(res.Categories) != 2 || res.Categories[0].Label != "NEGATIVE" || res.Categories[0].Score != 12 {
		t.Errorf("categories must keep provider order: %+v", res.Categories)
	}
	if res.Model != "sentiment" {
		t.Errorf("model = %q", res.Model)
	}
}

func TestClassify_ZeroShotDefaultLabels(t *testing.T) {
	hf := &fakeHF{scores: []entity.LabelScore{{Label: "neutral", Score: 1}}}
	uc := newTestUsecase(hf, &fakeGenerator{})

	if _, err := uc.Classify(context.Background(), &entity.ClassifyRequest{Text: "ok", Model: zeroShotKey}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(hf.zsLabels, ",") != strings.Join(defaultZeroShotLabels, ",") {
		t.Errorf("unexpected labels %v", hf.zsLabels)
	}
}

func TestClassify_UnknownModel(t *testing.T) {
	uc := newTestUsecase(&fakeHF{}, &fakeGenerator{})
	_, err := uc.Classify(context.Background(), &entity.ClassifyRequest{Text: "x", Model: "sarcasm"})
	if !errors.Is(err, entity.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestClassify_GeneratorPercentScores(t *testing.T) {
	hf := &fakeHF{failIDs: failing(
		"distilbert/distilbert-base-uncased-finetuned-sst-2-english",
		"j-hartmann/emotion-english-distilroberta-base",
		"unitary/toxic-bert",
		"facebook/bart-large-mnli",
	)}
	gen := &fakeGenerator{reply: `{"label":"joy","confidence":91}`}
	uc := newTestUsecase(hf, gen)

	res, err := uc.Classify(context.Background(), &entity.ClassifyRequest{Text: "yay", Model: "emotion"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label != "joy" || res.Confidence != 91 {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.Contains(gen.lastPrompt, "sadness") {
		t.Errorf("prompt should list emotion labels: %q", gen.lastPrompt)
	}
}

func TestAnswer_WithContextUsesExtractiveModel(t *testing.T) {
	hf := &fakeHF{answer: " Paris "}
	gen := &fakeGenerator{}
	uc := newTestUsecase(hf, gen)

	res, err := uc.Answer(context.Background(), &entity.QnARequest{
		Question: "What is the capital of France?",
		Context:  "Paris is the capital of France.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answer != "Paris" || res.Model != "roberta-squad2" || res.Confidence != 95 {
		t.Errorf("unexpected result %+v", res)
	}
	if gen.calls != 0 {
		t.Error("generator must not be called after a successful extractive answer")
	}
}

func TestAnswer_WithoutContextSkipsExtractiveModels(t *testing.T) {
	hf := &fakeHF{answer: "unused"}
	gen := &fakeGenerator{reply: `{"answer": "Blue light scatters more."}`}
	uc := newTestUsecase(hf, gen)

	res, err := uc.Answer(context.Background(), &entity.QnARequest{Question: "Why is the sky blue?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hf.calls) != 0 {
		t.Errorf("extractive models called without context: %v", hf.calls)
	}
	if res.Answer != "Blue light scatters more." || res.Model != "gemini/test" || res.Context != "" {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.Contains(gen.lastPrompt, "general knowledge") {
		t.Errorf("unexpected prompt %q", gen.lastPrompt)
	}
}

func TestParseJSONReply(t *testing.T) {
	var out generatedAnswer
	if err := parseJSONReply("```\n{\"answer\": \"42\"}\n```", &out); err != nil || out.Answer != "42" {
		t.Fatalf("fenced reply: %v, %+v", err, out)
	}
	if err := parseJSONReply("no json here", &out); !errors.Is(err, errNoJSONObject) {
		t.Fatalf("expected errNoJSONObject, got %v", err)
	}
	if err := parseJSONReply("{broken", &out); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestModels(t *testing.T) {
	res := newTestUsecase(&fakeHF{}, &fakeGenerator{}).Models()
	if len(res.Summarization) != 4 || res.Summarization[0].Key != "bart-large-cnn" {
		t.Errorf("unexpected summarization models %+v", res.Summarization)
	}
	if len(res.Classification) != 4 || len(res.QuestionAnswer) != 2 {
		t.Errorf("unexpected registry sizes %+v", res)
	}
}

func TestExport_Markdown(t *testing.T) {
	uc := newTestUsecase(&fakeHF{}, &fakeGenerator{})

	f, err := uc.Export(context.Background(), &entity.ExportRequest{Title: "Weekly notes", Summary: "All good."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(f.Filename, "Weekly_notes_") || !strings.HasSuffix(f.Filename, ".md") {
		t.Errorf("unexpected filename %q", f.Filename)
	}
	if string(f.Content) != "# Weekly notes\n\nAll good.\n" {
		t.Errorf("unexpected content %q", f.Content)
	}
}
