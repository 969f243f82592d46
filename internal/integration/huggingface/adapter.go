package huggingface

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
)

var errUnexpectedShape = errors.New("unexpected response shape")

type apiError struct {
	Error string `json:"error"`
}

type generatedSummary struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (g generatedSummary) text() string {
	if g.SummaryText != "" {
		return g.SummaryText
	}
	return g.GeneratedText
}

type zeroShotOutput struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// parseSummary accepts [{summary_text}], [{generated_text}] or a bare object
func parseSummary(raw json.RawMessage) (string, error) {
	if err := checkAPIError(raw); err != nil {
		return "", err
	}

	var list []generatedSummary
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if s := strings.TrimSpace(item.text()); s != "" {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: empty summary", errUnexpectedShape)
	}

	var single generatedSummary
	if err := json.Unmarshal(raw, &single); err == nil {
		if s := strings.TrimSpace(single.text()); s != "" {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: summary", errUnexpectedShape)
}

// parseLabelScores accepts [[{label,score}]], [{label,score}] or
// {labels[],scores[]}; provider order is preserved
func parseLabelScores(raw json.RawMessage) ([]entity.LabelScore, error) {
	if err := checkAPIError(raw); err != nil {
		return nil, err
	}

	var nested [][]entity.LabelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var flat []entity.LabelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 && flat[0].Label != "" {
		return flat, nil
	}

	var zs zeroShotOutput
	if err := json.Unmarshal(raw, &zs); err == nil && len(zs.Labels) > 0 {
		if len(zs.Labels) != len(zs.Scores) {
			return nil, fmt.Errorf("%w: %d labels for %d scores", errUnexpectedShape, len(zs.Labels), len(zs.Scores))
		}
		out := make([]entity.LabelScore, len(zs.Labels))
		for i := range zs.Labels {
			out[i] = entity.LabelScore{Label: zs.Labels[i], Score: zs.Scores[i]}
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: classification", errUnexpectedShape)
}

// parseAnswer accepts {answer,score} or [{answer,score}]
func parseAnswer(raw json.RawMessage) (*entity.ExtractedAnswer, error) {
	if err := checkAPIError(raw); err != nil {
		return nil, err
	}

	var single entity.ExtractedAnswer
	if err := json.Unmarshal(raw, &single); err == nil && strings.TrimSpace(single.Answer) != "" {
		single.Answer = strings.TrimSpace(single.Answer)
		return &single, nil
	}

	var list []entity.ExtractedAnswer
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && strings.TrimSpace(list[0].Answer) != "" {
		list[0].Answer = strings.TrimSpace(list[0].Answer)
		return &list[0], nil
	}

	return nil, fmt.Errorf("%w: answer", errUnexpectedShape)
}

// checkAPIError detects {"error": "..."} bodies delivered with a 2xx status
func checkAPIError(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty body", errUnexpectedShape)
	}

	var e apiError
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return fmt.Errorf("provider error: %s", e.Error)
	}
	return nil
}
