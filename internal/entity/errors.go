package entity

import "errors"

// Domain errors
var (
	// Input errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnknownModel     = errors.New("unknown model")

	// File errors
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrEmptyDocument        = errors.New("document contains no extractable text")

	// Document store errors
	ErrNoDocuments = errors.New("no documents have been uploaded")

	// Provider errors
	ErrCredentialMissing       = errors.New("provider credential is not configured")
	ErrProviderFailure         = errors.New("provider call failed")
	ErrEmbeddingUnavailable    = errors.New("embedding service unavailable")
	ErrAllProvidersUnavailable = errors.New("all providers are unavailable")
)
