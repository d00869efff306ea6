package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/db"
	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/document"
	logpkg "github.com/kailas-cloud/retriever/internal/logger"
	"github.com/kailas-cloud/retriever/internal/metrics"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config describes where passages live and how they are stored.
type Config struct {
	IndexName    string
	Namespace    string
	ContentField string // metadata key holding the passage text
	Backend      string // metrics label: pinecone, redis, valkey
}

// Repo implements usecase/retrieval.Searcher.
type Repo struct {
	store        store
	indexName    string
	namespace    string
	contentField string
	backend      string
	returnFields []string
}

// New creates a search repository.
func New(s store, cfg Config) *Repo {
	contentField := cfg.ContentField
	if contentField == "" {
		contentField = "text"
	}
	backend := cfg.Backend
	if backend == "" {
		backend = "unknown"
	}
	return &Repo{
		store:        s,
		indexName:    cfg.IndexName,
		namespace:    cfg.Namespace,
		contentField: contentField,
		backend:      backend,
		returnFields: append([]string{contentField}, document.MetadataKeys...),
	}
}

// SearchKNN returns up to k passages nearest to vector, best first.
// Matches without passage text are skipped.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k int) ([]document.Document, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Namespace:    r.namespace,
		Vector:       vector,
		K:            k,
		ReturnFields: r.returnFields,
	}

	start := time.Now()
	sr, err := r.store.SearchKNN(ctx, q)
	metrics.IndexQueryDuration.WithLabelValues(r.backend).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IndexQueriesTotal.WithLabelValues(r.backend, "error").Inc()
		return nil, fmt.Errorf("search knn %s: %w: %w", r.indexName, domain.ErrIndexProviderError, err)
	}
	metrics.IndexQueriesTotal.WithLabelValues(r.backend, "success").Inc()

	docs := r.toDocuments(ctx, sr, k)
	metrics.IndexMatchesReturned.WithLabelValues(r.backend).Observe(float64(len(docs)))
	return docs, nil
}

func (r *Repo) toDocuments(ctx context.Context, sr *db.SearchResult, k int) []document.Document {
	if sr == nil {
		return []document.Document{}
	}

	docs := make([]document.Document, 0, min(len(sr.Entries), k))
	for _, e := range sr.Entries {
		if len(docs) == k {
			break
		}
		content, ok := e.Fields[r.contentField].(string)
		if !ok {
			logpkg.FromContext(ctx).Warn("Skipping match without passage text",
				zap.String("index", r.indexName),
				zap.String("id", e.Key),
				zap.String("content_field", r.contentField),
			)
			continue
		}
		docs = append(docs, document.New(e.Key, e.Score, content, e.Fields))
	}
	return docs
}
