package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", h.Chat)
		r.Post("/enhanced", h.ChatWithMemory)
		r.Get("/personas", h.Personas)
		r.Delete("/sessions/{session_id}", h.ResetSession)
	})
}
