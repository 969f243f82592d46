package inference

import (
	"math"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
)

// qnaConfidence is reported for every answer; extractive scores are not
// comparable with generative replies
const qnaConfidence = 95

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// compressionRatio is the percentage of words removed by summarization
func compressionRatio(originalWords, summaryWords int) int {
	if originalWords == 0 {
		return 0
	}
	return int(math.Round((1 - float64(summaryWords)/float64(originalWords)) * 100))
}

func toPercent(score float64) int {
	return int(math.Round(score * 100))
}

func normalizeSummary(original, summary, model string) *entity.SummarizeResult {
	summary = strings.TrimSpace(summary)
	origWords := wordCount(original)
	sumWords := wordCount(summary)

	return &entity.SummarizeResult{
		OriginalText:      original,
		Summary:           summary,
		WordCount:         sumWords,
		OriginalWordCount: origWords,
		CompressionRatio:  compressionRatio(origWords, sumWords),
		Model:             model,
	}
}

// normalizeClassification reports the highest scoring label; categories keep
// provider order
func normalizeClassification(scores []entity.LabelScore, model string) *entity.ClassifyResult {
	res := &entity.ClassifyResult{
		Categories: make([]entity.Category, len(scores)),
		Model:      model,
	}

	top := -1
	for i, s := range scores {
		res.Categories[i] = entity.Category{Label: s.Label, Score: toPercent(s.Score)}
		if top < 0 || s.Score > scores[top].Score {
			top = i
		}
	}

	if top >= 0 {
		res.Label = scores[top].Label
		res.Confidence = toPercent(scores[top].Score)
	}
	return res
}

func normalizeAnswer(question, passage, answer, model string) *entity.QnAResult {
	return &entity.QnAResult{
		Question:   question,
		Answer:     strings.TrimSpace(answer),
		Context:    passage,
		Confidence: qnaConfidence,
		Model:      model,
	}
}
