package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/futig/ai-workbench/internal/entity"
	"github.com/futig/ai-workbench/internal/pkg/logger"
	"github.com/futig/ai-workbench/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodySize = 2 << 20

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Chat handles POST /api/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	req, ok := h.decode(ctx, w, r)
	if !ok {
		return
	}

	stream, err := h.usecase.Stream(ctx, req)
	if err != nil {
		h.handleStreamError(ctx, w, err)
		return
	}

	h.writeStream(ctx, w, stream)
}

// ChatWithMemory handles POST /api/chat/enhanced
func (h *Handler) ChatWithMemory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatWithMemory")

	req, ok := h.decode(ctx, w, r)
	if !ok {
		return
	}

	stream, err := h.usecase.StreamWithMemory(ctx, req)
	if err != nil {
		h.handleStreamError(ctx, w, err)
		return
	}

	h.writeStream(logger.AddFields(ctx, zap.String("session_id", stream.SessionID)), w, stream)
}

// ResetSession handles DELETE /api/chat/sessions/{session_id}
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ResetSession"),
	)

	existed, err := h.usecase.ResetSession(ctx, sessionID)
	if err != nil {
		ctxzap.Warn(ctx, "failed to reset session", zap.Error(err))
		response.Error(w, response.StatusFor(err), err.Error())
		return
	}

	message := "Session memory cleared"
	if !existed {
		message = "Session not found, nothing to clear"
	}
	response.Success(w, &entity.MessageResponse{Message: message})
}

// Personas handles GET /api/chat/personas
func (h *Handler) Personas(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.usecase.Personas())
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entity.ChatRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "invalid chat request body", zap.Error(err))
		response.PlainError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &req, true
}

func (h *Handler) handleStreamError(ctx context.Context, w http.ResponseWriter, err error) {
	status := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "failed to start chat stream", zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, "chat request rejected", zap.Int("status", status), zap.Error(err))
	}
	response.PlainError(w, status, err.Error())
}

// writeStream forwards fragments to the client as they arrive. Once the
// status line is written a provider failure can only be signalled by
// aborting the connection.
func (h *Handler) writeStream(ctx context.Context, w http.ResponseWriter, stream *entity.ChatStream) {
	// headers wait for the first fragment so an immediate failure still
	// gets a proper status
	first, ok := <-stream.Fragments
	if ok && first.Err != nil {
		ctxzap.Error(ctx, "chat stream failed before the first fragment", zap.Error(first.Err))
		drain(stream.Fragments)
		response.PlainError(w, response.StatusFor(first.Err), first.Err.Error())
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Cache-Control", "no-cache")
	header.Set("X-Accel-Buffering", "no")
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("X-Persona", stream.Persona.Key)
	if stream.SessionID != "" {
		header.Set("X-Session-ID", stream.SessionID)
	}
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	if !ok {
		ctxzap.Info(ctx, "chat stream finished", zap.Int("bytes_written", 0))
		return
	}

	written := 0
	frag := first
	for {
		if frag.Err != nil {
			ctxzap.Error(ctx, "chat stream failed after start",
				zap.Int("bytes_written", written),
				zap.Error(frag.Err),
			)
			panic(http.ErrAbortHandler)
		}

		n, err := io.WriteString(w, frag.Content)
		written += n
		if err != nil {
			ctxzap.Info(ctx, "client went away during chat stream", zap.Error(err))
			drain(stream.Fragments)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		if frag, ok = <-stream.Fragments; !ok {
			break
		}
	}

	ctxzap.Info(ctx, "chat stream finished", zap.Int("bytes_written", written))
}

// drain lets the producer finish once the client is gone
func drain(fragments <-chan entity.ChatFragment) {
	go func() {
		for range fragments {
		}
	}()
}
