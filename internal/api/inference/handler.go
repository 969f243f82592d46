package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/logger"
	"github.com/futig/ai-workbench/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxBodySize bounds JSON request bodies; text fields are limited far below it
const maxBodySize = 1 << 20

type Handler struct {
	usecase InferenceUsecase
}

func NewHandler(usecase InferenceUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Summarize handles POST /api/summarize
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Summarize")

	var req entity.SummarizeRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	result, err := h.usecase.Summarize(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// ExportSummary handles POST /api/summarize/export?format=
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportSummary")

	var req entity.ExportRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	req.Format = entity.ResultFormat(strings.ToLower(r.URL.Query().Get("format")))

	file, err := h.usecase.Export(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// Classify handles POST /api/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Classify")

	var req entity.ClassifyRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	result, err := h.usecase.Classify(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Answer handles POST /api/qna
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AnswerQuestion")

	var req entity.QnARequest
	if !h.decode(ctx, w, r, &req) {
		return
	}

	result, err := h.usecase.Answer(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Models handles GET /api/models
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.usecase.Models())
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Int("status", status), zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	h.respondError(ctx, w, response.StatusFor(err), err.Error(), err)
}
