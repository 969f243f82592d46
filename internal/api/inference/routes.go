package inference

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers summarization, classification and Q&A routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/summarize", h.Summarize)
	r.Post("/summarize/export", h.ExportSummary)
	r.Post("/classify", h.Classify)
	r.Post("/qna", h.Answer)
	r.Get("/models", h.Models)
}
