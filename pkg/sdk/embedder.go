package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/retriever/internal/domain"
	openaiEmb "github.com/kailas-cloud/retriever/internal/transport/openai"
)

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// WithOpenAI uses the OpenAI embeddings API. An empty model selects text-embedding-3-small.
func WithOpenAI(apiKey, model string) Option {
	return WithEmbedder(&openAIEmbedder{inner: openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey: apiKey,
		Model:  model,
	})})
}

// openAIEmbedder exposes the internal OpenAI provider through the public Embedder.
type openAIEmbedder struct {
	inner *openaiEmb.Embedder
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	r, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("openai: %w", err)
	}
	return EmbeddingResult(r), nil
}

// HealthCheck lists models to verify API availability.
func (e *openAIEmbedder) HealthCheck(ctx context.Context) error {
	if err := e.inner.HealthCheck(ctx); err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	return nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingProviderError) {
			return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
		}
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
