package db

import "context"

// Index is the vector index facade used by the service.
type Index interface {
	Pinger
	Searcher
	Close()
}

// Pinger checks index connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs nearest-neighbour queries against an existing index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
