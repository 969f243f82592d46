package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/ai-workbench/internal/config"
	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/logger"
	"github.com/futig/ai-workbench/internal/pkg/response"
	"github.com/futig/ai-workbench/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxQueryBodySize bounds the JSON body of a question
const maxQueryBodySize = 64 << 10

type Handler struct {
	usecase   RAGUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(usecase RAGUsecase, cfg config.FileUploadConfig, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Upload handles POST /api/rag/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(ctx, w, http.StatusBadRequest, entity.ErrFileTooLarge.Error(), err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fh, err := r.FormFile("file")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "no file uploaded", err)
		return
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(fh); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded file", err)
		return
	}

	filename := validator.SanitizeFilename(fh.Filename)
	ctx = logger.AddFields(ctx, zap.String("filename", filename))

	ctxzap.Info(ctx, "ingesting document",
		zap.String("content_type", fh.Header.Get("Content-Type")),
		zap.Int("size", len(content)),
	)

	result, err := h.usecase.Ingest(ctx, &entity.UploadedFile{
		Filename:    filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Query handles POST /api/rag/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "QueryDocuments")
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBodySize)

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateQuery(&req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	result, err := h.usecase.Answer(ctx, req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Clear handles POST /api/rag/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearDocuments")

	if err := h.usecase.Clear(ctx); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.MessageResponse{Message: "All documents cleared"})
}

// Status handles GET /api/rag/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StoreStatus")

	status := h.usecase.Status(ctx)
	ctxzap.Debug(ctx, "store status",
		zap.Int("documents", status.TotalDocuments),
		zap.Int("chunks", status.TotalChunks),
	)

	response.Success(w, status)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Int("status", status), zap.Error(err))
	}

	if err != nil && message == "" {
		message = err.Error()
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status := response.StatusFor(err)
	message := err.Error()
	if errors.Is(err, entity.ErrNoDocuments) {
		message = fmt.Sprintf("%s, upload a document first", entity.ErrNoDocuments)
	}
	h.respondError(ctx, w, status, message, err)
}
