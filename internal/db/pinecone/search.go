package pinecone

import (
	"context"
	"fmt"

	sdk "github.com/pinecone-io/go-pinecone/v4/pinecone"

	"github.com/kailas-cloud/retriever/internal/db"
)

// SearchKNN queries the index by vector and returns matches with their metadata.
// Namespace and return fields are fixed by the connection; Pinecone always
// returns the full metadata object.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	resp, err := s.conn.QueryByVectorValues(ctx, &sdk.QueryByVectorValuesRequest{
		Vector:          q.Vector,
		TopK:            uint32(q.K), //nolint:gosec // k is bounded by the caller
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("index %s: %w", s.indexName, err)}
	}

	return parseMatches(resp), nil
}

func parseMatches(resp *sdk.QueryVectorsResponse) *db.SearchResult {
	if resp == nil || len(resp.Matches) == 0 {
		return &db.SearchResult{}
	}

	entries := make([]db.SearchEntry, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}

		entry := db.SearchEntry{
			Key:    m.Vector.Id,
			Score:  float64(m.Score),
			Fields: map[string]any{},
		}
		if m.Vector.Metadata != nil {
			entry.Fields = m.Vector.Metadata.AsMap()
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}
}
