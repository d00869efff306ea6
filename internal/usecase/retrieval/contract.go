package retrieval

import (
	"context"

	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/document"
)

// Embedder vectorizes query text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher finds the passages nearest to a vector.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]document.Document, error)
}
