package retriever

import (
	"github.com/kailas-cloud/retriever/internal/db"
	"github.com/kailas-cloud/retriever/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrProviderFailure        = domain.ErrProviderFailure
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrIndexProviderError     = domain.ErrIndexProviderError
	ErrIndexNotFound          = db.ErrIndexNotFound
)
