package entity

// Inference tasks served by the fallback orchestrator
type Task string

const (
	TaskSummarization  Task = "summarization"
	TaskClassification Task = "classification"
	TaskQuestionAnswer Task = "question-answering"
)

// SummaryType controls the target summary length
type SummaryType string

const (
	SummaryBrief    SummaryType = "brief"
	SummaryStandard SummaryType = "standard"
	SummaryDetailed SummaryType = "detailed"
)

func (t SummaryType) IsValid() bool {
	switch t {
	case SummaryBrief, SummaryStandard, SummaryDetailed:
		return true
	default:
		return false
	}
}

// SummaryLength is the min/max token length requested from a summarization model
type SummaryLength struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

type SummarizeRequest struct {
	Text        string      `json:"text"`
	Model       string      `json:"model,omitempty"`
	SummaryType SummaryType `json:"summaryType,omitempty"`
}

type SummarizeResult struct {
	OriginalText      string `json:"originalText"`
	Summary           string `json:"summary"`
	WordCount         int    `json:"wordCount"`
	OriginalWordCount int    `json:"originalWordCount"`
	CompressionRatio  int    `json:"compressionRatio"`
	Model             string `json:"model"`
}

type ClassifyRequest struct {
	Text         string   `json:"text"`
	Model        string   `json:"model"`
	CustomLabels []string `json:"customLabels,omitempty"`
}

// LabelScore is a raw provider label with a probability in [0, 1]
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Category is a label with its score expressed as a whole percentage
type Category struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

type ClassifyResult struct {
	Label      string     `json:"label"`
	Confidence int        `json:"confidence"`
	Categories []Category `json:"categories"`
	Model      string     `json:"model"`
}

type QnARequest struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}

// ExtractedAnswer is an answer span picked from a context by an extractive model
type ExtractedAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

type QnAResult struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Context    string `json:"context"`
	Confidence int    `json:"confidence"`
	Model      string `json:"model"`
}

// ModelInfo describes a model that can be requested by key
type ModelInfo struct {
	Key string `json:"key"`
	ID  string `json:"id"`
}

type ModelsResponse struct {
	Summarization  []ModelInfo `json:"summarization"`
	Classification []ModelInfo `json:"classification"`
	QuestionAnswer []ModelInfo `json:"qna"`
}

// ResultFormat is the file format of an exported summary
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ExportRequest struct {
	Title   string       `json:"title,omitempty"`
	Summary string       `json:"summary"`
	Format  ResultFormat `json:"-"`
}

// ExportedFile is a rendered document ready to be downloaded
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
