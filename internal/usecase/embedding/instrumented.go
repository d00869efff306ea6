package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/domain"
	logpkg "github.com/kailas-cloud/retriever/internal/logger"
)

// InstrumentedEmbedder wraps an Embedder with request logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(inner domain.Embedder, provider, model string, logger *zap.Logger) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and logs the outcome.
// A request-scoped logger in ctx takes precedence over the constructor logger.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := p.loggerFor(ctx)
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		log.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	log.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	hc, ok := p.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%s health: %w", p.provider, err)
	}
	return nil
}

func (p *InstrumentedEmbedder) loggerFor(ctx context.Context) *zap.Logger {
	return logpkg.FromContextOr(ctx, p.logger)
}
