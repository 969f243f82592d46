package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/ai-workbench/internal/entity"
)

const (
	MinSummarizeLength = 50
	MaxTextLength      = 10000
	MaxQuestionLength  = 2000
	MaxCustomLabels    = 10
	MaxChatMessages    = 100
)

// ValidateSummarize validates SummarizeRequest and normalizes its text
func (v *Validator) ValidateSummarize(req *entity.SummarizeRequest) error {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return fmt.Errorf("%w: text", entity.ErrMissingField)
	}

	n := utf8.RuneCountInString(req.Text)
	if n < MinSummarizeLength {
		return fmt.Errorf("%w: text must be at least %d characters, got %d", entity.ErrInvalidInput, MinSummarizeLength, n)
	}
	if n > MaxTextLength {
		return fmt.Errorf("%w: text must be at most %d characters, got %d", entity.ErrInvalidInput, MaxTextLength, n)
	}

	if req.SummaryType == "" {
		req.SummaryType = entity.SummaryStandard
	}
	if !req.SummaryType.IsValid() {
		return fmt.Errorf("%w: summaryType %q (allowed: brief, standard, detailed)", entity.ErrInvalidParameter, req.SummaryType)
	}

	return nil
}

// ValidateClassify validates ClassifyRequest
func (v *Validator) ValidateClassify(req *entity.ClassifyRequest) error {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return fmt.Errorf("%w: text", entity.ErrMissingField)
	}
	if n := utf8.RuneCountInString(req.Text); n > MaxTextLength {
		return fmt.Errorf("%w: text must be at most %d characters, got %d", entity.ErrInvalidInput, MaxTextLength, n)
	}

	if strings.TrimSpace(req.Model) == "" {
		return fmt.Errorf("%w: model", entity.ErrMissingField)
	}

	if len(req.CustomLabels) > MaxCustomLabels {
		return fmt.Errorf("%w: at most %d custom labels allowed, got %d", entity.ErrInvalidParameter, MaxCustomLabels, len(req.CustomLabels))
	}

	labels := make([]string, 0, len(req.CustomLabels))
	for _, l := range req.CustomLabels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	req.CustomLabels = labels

	return nil
}

// ValidateQnA validates QnARequest
func (v *Validator) ValidateQnA(req *entity.QnARequest) error {
	req.Question = strings.TrimSpace(req.Question)
	req.Context = strings.TrimSpace(req.Context)

	if req.Question == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	if n := utf8.RuneCountInString(req.Question); n > MaxQuestionLength {
		return fmt.Errorf("%w: question must be at most %d characters, got %d", entity.ErrInvalidInput, MaxQuestionLength, n)
	}
	if n := utf8.RuneCountInString(req.Context); n > MaxTextLength {
		return fmt.Errorf("%w: context must be at most %d characters, got %d", entity.ErrInvalidInput, MaxTextLength, n)
	}

	return nil
}

// ValidateQuery validates a document store question
func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	if n := utf8.RuneCountInString(req.Question); n > MaxQuestionLength {
		return fmt.Errorf("%w: question must be at most %d characters, got %d", entity.ErrInvalidInput, MaxQuestionLength, n)
	}
	return nil
}

// ValidateChat validates a chat request: the conversation must end with a
// non-empty user message.
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages", entity.ErrMissingField)
	}
	if len(req.Messages) > MaxChatMessages {
		return fmt.Errorf("%w: at most %d messages allowed, got %d", entity.ErrInvalidInput, MaxChatMessages, len(req.Messages))
	}

	for i, m := range req.Messages {
		if m.Role != entity.RoleUser && m.Role != entity.RoleAssistant {
			return fmt.Errorf("%w: messages[%d].role %q (allowed: user, assistant)", entity.ErrInvalidParameter, i, m.Role)
		}
	}

	last := req.Messages[len(req.Messages)-1]
	if last.Role != entity.RoleUser {
		return fmt.Errorf("%w: last message must be from the user", entity.ErrInvalidInput)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last message content", entity.ErrMissingField)
	}

	return nil
}

// ValidateExport validates a summary export request
func (v *Validator) ValidateExport(req *entity.ExportRequest) error {
	req.Summary = strings.TrimSpace(req.Summary)
	req.Title = strings.TrimSpace(req.Title)

	if req.Summary == "" {
		return fmt.Errorf("%w: summary", entity.ErrMissingField)
	}
	if req.Format == "" {
		req.Format = entity.FormatMarkdown
	}
	if !req.Format.IsValid() {
		return fmt.Errorf("%w: format %q (allowed: markdown, docx, pdf)", entity.ErrInvalidParameter, req.Format)
	}
	return nil
}
