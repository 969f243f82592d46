package entity

type IngestResult struct {
	Filename       string `json:"filename"`
	ChunkCount     int    `json:"chunkCount"`
	TotalDocuments int    `json:"totalDocuments"`
	Message        string `json:"message"`
}

type QueryRequest struct {
	Question string `json:"question"`
}

type AnswerSource struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

type AnswerResult struct {
	Question       string         `json:"question"`
	Answer         string         `json:"answer"`
	TotalDocuments int            `json:"totalDocuments"`
	Sources        []AnswerSource `json:"sources"`
}

// Store status values
const (
	StoreStatusReady = "ready"
	StoreStatusEmpty = "empty"
)

type StoreStatus struct {
	TotalDocuments int    `json:"totalDocuments"`
	TotalChunks    int    `json:"totalChunks"`
	HasDocuments   bool   `json:"hasDocuments"`
	Status         string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
