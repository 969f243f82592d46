package rag

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document store routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/rag", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/query", h.Query)
		r.Post("/clear", h.Clear)
		r.Get("/status", h.Status)
	})
}
