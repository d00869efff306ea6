package retriever

import (
	"context"

	"github.com/kailas-cloud/retriever/internal/db"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/query"
	healthuc "github.com/kailas-cloud/retriever/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/retriever/internal/usecase/retrieval"
)

// --- retrievalUseCase mock ---

type mockRetrievalUC struct {
	retrieveFn func(ctx context.Context, q query.Query) (retrievaluc.Response, error)
	calls      int
}

func (m *mockRetrievalUC) Retrieve(ctx context.Context, q query.Query) (retrievaluc.Response, error) {
	m.calls++
	return m.retrieveFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- db.Index mock ---

type mockIndex struct {
	pingErr  error
	searchFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	closed   bool
}

func (m *mockIndex) Ping(_ context.Context) error { return m.pingErr }

func (m *mockIndex) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockIndex) Close() { m.closed = true }

// --- Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

func staticEmbedder(vec ...float32) *mockEmbedder {
	return &mockEmbedder{fn: func(context.Context, string) (EmbeddingResult, error) {
		return EmbeddingResult{Embedding: vec}, nil
	}}
}
