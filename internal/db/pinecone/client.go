// Package pinecone implements the vector index contract on top of a hosted Pinecone index.
package pinecone

import (
	"context"
	"fmt"

	sdk "github.com/pinecone-io/go-pinecone/v4/pinecone"

	"github.com/kailas-cloud/retriever/internal/db"
)

// Compile-time check: Store implements db.Index.
var _ db.Index = (*Store)(nil)

// Config holds connection parameters for a Pinecone index.
type Config struct {
	APIKey    string
	IndexName string
	// Host skips the DescribeIndex lookup when set.
	Host      string
	Namespace string
}

// indexConn is the subset of *sdk.IndexConnection used by the store.
type indexConn interface {
	QueryByVectorValues(ctx context.Context, in *sdk.QueryByVectorValuesRequest) (*sdk.QueryVectorsResponse, error)
	DescribeIndexStats(ctx context.Context) (*sdk.DescribeIndexStatsResponse, error)
	Close() error
}

// Store implements db.Index over a single Pinecone index connection.
type Store struct {
	conn      indexConn
	indexName string
}

// NewStore creates a Pinecone client and opens a data-plane connection to the index.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	pc, err := sdk.NewClient(sdk.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	host := cfg.Host
	if host == "" {
		idx, err := pc.DescribeIndex(ctx, cfg.IndexName)
		if err != nil {
			return nil, &db.Error{Op: db.OpDescribeIndex, Err: fmt.Errorf("%w: %s: %w", db.ErrIndexNotFound, cfg.IndexName, err)}
		}
		host = idx.Host
	}

	conn, err := pc.Index(sdk.NewIndexConnParams{Host: host, Namespace: cfg.Namespace})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to index %s: %w", cfg.IndexName, err)
	}

	return &Store{conn: conn, indexName: cfg.IndexName}, nil
}

// Ping checks that the index answers a stats request.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.conn.DescribeIndexStats(ctx); err != nil {
		return &db.Error{Op: db.OpDescribeIndexStats, Err: err}
	}
	return nil
}

// Close releases the index connection.
func (s *Store) Close() {
	_ = s.conn.Close()
}
