package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/ai-workbench/internal/api/chat"
	"github.com/futig/ai-workbench/internal/api/docs"
	inferenceapi "github.com/futig/ai-workbench/internal/api/inference"
	"github.com/futig/ai-workbench/internal/api/middleware"
	ragapi "github.com/futig/ai-workbench/internal/api/rag"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	DocsSpecPath   string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	ragHandler *ragapi.Handler,
	inferenceHandler *inferenceapi.Handler,
	chatHandler *chatapi.Handler,
	cfg RouterConfig,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, cfg.DocsSpecPath)

	r.Route("/api", func(r chi.Router) {
		// Streaming chat manages its own lifetime through the request context
		chatapi.RegisterRoutes(r, chatHandler)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

			ragapi.RegisterRoutes(r, ragHandler)
			inferenceapi.RegisterRoutes(r, inferenceHandler)
		})
	})

	return r
}
