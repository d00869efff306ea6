package retriever

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/retriever/internal/db"
	dbPinecone "github.com/kailas-cloud/retriever/internal/db/pinecone"
	dbRedis "github.com/kailas-cloud/retriever/internal/db/redis"
	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/query"
	searchrepo "github.com/kailas-cloud/retriever/internal/repository/search"
	healthuc "github.com/kailas-cloud/retriever/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/retriever/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// DefaultK is the result count used by the HTTP API when k is omitted.
const DefaultK = query.DefaultK

// Internal interface for substitution in tests.
type retrievalUseCase interface {
	Retrieve(ctx context.Context, q query.Query) (retrievaluc.Response, error)
}

// Client is the retriever SDK entry point.
type Client struct {
	index        db.Index
	retrievalSvc retrievalUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a Client and connects to the vector index.
// The provided context is used for connection setup and the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("retriever: index required (use WithPinecone, WithRedis or WithValkey)")
	}
	if cfg.indexName == "" {
		return nil, errors.New("retriever: index name required")
	}
	if cfg.embedder == nil {
		return nil, errors.New("retriever: embedder required (use WithEmbedder or WithOpenAI)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	index, err := createIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(index, cfg, obs), nil
}

func createIndex(ctx context.Context, cfg *clientConfig) (db.Index, error) {
	switch cfg.driver {
	case driverPinecone:
		s, err := dbPinecone.NewStore(ctx, dbPinecone.Config{
			APIKey:    cfg.pineconeAPIKey,
			IndexName: cfg.indexName,
			Host:      cfg.pineconeHost,
			Namespace: cfg.namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("retriever: create pinecone index: %w", err)
		}
		return s, nil
	case driverRedis, driverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.addrs,
			Password:    cfg.password,
			VectorField: cfg.vectorField,
		})
		if err != nil {
			return nil, fmt.Errorf("retriever: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("retriever: %s not ready: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("retriever: unknown driver %q", cfg.driver)
	}
}

func wireClient(index db.Index, cfg *clientConfig, obs *observer) *Client {
	repo := searchrepo.New(index, searchrepo.Config{
		IndexName:    cfg.indexName,
		Namespace:    cfg.namespace,
		ContentField: cfg.contentField,
		Backend:      cfg.driver,
	})
	emb := &embedderAdapter{inner: cfg.embedder}

	var embHealth healthuc.EmbeddingChecker
	if hc, ok := cfg.embedder.(healthuc.EmbeddingChecker); ok {
		embHealth = hc
	}

	return &Client{
		index:        index,
		retrievalSvc: retrievaluc.New(emb, repo).WithTimeout(cfg.timeout),
		healthSvc:    healthuc.New(index, embHealth),
		obs:          obs,
	}
}

// Retrieve embeds q and returns up to k nearest passages, best first.
// Invalid input fails with ErrInvalidQuery before any provider call;
// provider errors match ErrProviderFailure.
func (c *Client) Retrieve(ctx context.Context, q string, k int) (docs []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	dq, err := query.New(q, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	resp, err := c.retrievalSvc.Retrieve(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	docs = make([]Document, len(resp.Documents))
	for i := range resp.Documents {
		docs[i] = documentFromDomain(&resp.Documents[i])
	}
	return docs, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.index != nil {
		c.index.Close()
	}
}

// Ping checks index connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.index.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", domain.ErrIndexProviderError, err)
	}
	return nil
}
