package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
)

var errNoJSONObject = errors.New("reply contains no JSON object")

type generatedSummary struct {
	Summary string `json:"summary"`
}

type generatedClassification struct {
	Label      string              `json:"label"`
	Confidence float64             `json:"confidence"`
	Categories []entity.LabelScore `json:"categories"`
}

type generatedAnswer struct {
	Answer string `json:"answer"`
}

func summarizePrompt(text string, length entity.SummaryLength) string {
	return fmt.Sprintf(`Summarize the text below in roughly %d to %d words.
Respond with only a JSON object of the form {"summary": "<summary>"}.

Text:
%s`, length.MinLength*3/4, length.MaxLength*3/4, text)
}

func classifyPrompt(text string, labels []string) string {
	return fmt.Sprintf(`Classify the text below using exactly one of these labels: %s.
Respond with only a JSON object of the form
{"label": "<label>", "confidence": <0..1>, "categories": [{"label": "<label>", "score": <0..1>}]}
where categories lists every label with its probability.

Text:
%s`, strings.Join(labels, ", "), text)
}

func answerPrompt(question, passage string) string {
	if strings.TrimSpace(passage) == "" {
		return fmt.Sprintf(`Answer the question below concisely from general knowledge.
Respond with only a JSON object of the form {"answer": "<answer>"}.

Question: %s`, question)
	}

	return fmt.Sprintf(`Answer the question using only the context below.
Respond with only a JSON object of the form {"answer": "<answer>"}.

Context:
%s

Question: %s`, passage, question)
}

// parseJSONReply strips markdown fences and any text outside the outermost
// braces before decoding
func parseJSONReply(reply string, v any) error {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return errNoJSONObject
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

// scores accepts probabilities in [0, 1] or percentages
func (g generatedClassification) scores() []entity.LabelScore {
	out := g.Categories
	if len(out) == 0 && g.Label != "" {
		out = []entity.LabelScore{{Label: g.Label, Score: g.Confidence}}
	}

	for i := range out {
		if out[i].Score > 1 {
			out[i].Score /= 100
		}
	}
	return out
}
