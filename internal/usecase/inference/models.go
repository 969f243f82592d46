package inference

import "github.com/futig/ai-workbench/internal/entity"

// registry is an ordered list of model keys for one task; order is the
// fallback priority
type registry []entity.ModelInfo

var (
	summarizationModels = registry{
		{Key: "bart-large-cnn", ID: "facebook/bart-large-cnn"},
		{Key: "distilbart-cnn", ID: "sshleifer/distilbart-cnn-12-6"},
		{Key: "pegasus-xsum", ID: "google/pegasus-xsum"},
		{Key: "t5-small", ID: "google-t5/t5-small"},
	}

	classificationModels = registry{
		{Key: "sentiment", ID: "distilbert/distilbert-base-uncased-finetuned-sst-2-english"},
		{Key: "emotion", ID: "j-hartmann/emotion-english-distilroberta-base"},
		{Key: "toxicity", ID: "unitary/toxic-bert"},
		{Key: zeroShotKey, ID: "facebook/bart-large-mnli"},
	}

	qnaModels = registry{
		{Key: "roberta-squad2", ID: "deepset/roberta-base-squad2"},
		{Key: "distilbert-squad", ID: "distilbert/distilbert-base-cased-distilled-squad"},
	}
)

const zeroShotKey = "zero-shot"

// defaultZeroShotLabels are used when a zero-shot request carries no labels
var defaultZeroShotLabels = []string{"positive", "negative", "neutral"}

// labelHints tell the secondary provider which labels a model key produces
var labelHints = map[string][]string{
	"sentiment": {"POSITIVE", "NEGATIVE"},
	"emotion":   {"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"},
	"toxicity":  {"toxic", "non-toxic"},
}

var summaryLengths = map[entity.SummaryType]entity.SummaryLength{
	entity.SummaryBrief:    {MinLength: 20, MaxLength: 60},
	entity.SummaryStandard: {MinLength: 50, MaxLength: 150},
	entity.SummaryDetailed: {MinLength: 100, MaxLength: 300},
}

func (r registry) has(key string) bool {
	for _, m := range r {
		if m.Key == key {
			return true
		}
	}
	return false
}

// ordered returns the preferred model first (when recognised) followed by
// the remaining models in priority order
func (r registry) ordered(preferred string) registry {
	out := make(registry, 0, len(r))
	for _, m := range r {
		if m.Key == preferred {
			out = append(out, m)
		}
	}
	for _, m := range r {
		if m.Key != preferred {
			out = append(out, m)
		}
	}
	return out
}

func (r registry) list() []entity.ModelInfo {
	return append([]entity.ModelInfo(nil), r...)
}
