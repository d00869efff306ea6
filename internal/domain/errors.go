package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed retrieval request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrProviderFailure signals that an external provider call failed.
	ErrProviderFailure = errors.New("provider failure")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexProviderError signals a vector index provider failure.
	ErrIndexProviderError = errors.New("index provider error")
)

// ValidationError wraps ErrInvalidQuery with a client-facing explanation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return ErrInvalidQuery.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuery }

// NewValidationError creates a validation error with the given explanation.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
