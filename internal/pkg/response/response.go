package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/ai-workbench/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes a failed envelope
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.Envelope{Success: false, Error: message})
}

// Success writes a successful envelope with status 200
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, entity.Envelope{Success: true, Data: data})
}

// PlainError writes a plain-text error, used by streaming endpoints before the
// stream has started
func PlainError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write([]byte(message))
}

// File writes a downloadable attachment
func File(w http.ResponseWriter, filename, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// StatusFor maps a domain error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrEmbeddingUnavailable),
		errors.Is(err, entity.ErrAllProvidersUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnknownModel),
		errors.Is(err, entity.ErrUnsupportedMediaType),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrEmptyDocument),
		errors.Is(err, entity.ErrNoDocuments),
		errors.Is(err, entity.ErrCredentialMissing):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
