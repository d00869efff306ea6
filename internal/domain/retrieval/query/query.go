// Package query holds the validated retrieval query.
package query

import (
	"fmt"

	"github.com/kailas-cloud/retriever/internal/domain"
)

// Result count limits.
const (
	DefaultK = 5
	MinK     = 1
	MaxK     = 100
)

// Query is a validated retrieval request: query text plus result count.
type Query struct {
	text string
	k    int
}

// New validates the query text and result count.
// text must be non-empty, k must lie in [MinK, MaxK].
func New(text string, k int) (Query, error) {
	if text == "" {
		return Query{}, domain.NewValidationError("Query parameter 'q' is required")
	}
	if k < MinK || k > MaxK {
		return Query{}, domain.NewValidationError(
			fmt.Sprintf("Query parameter 'k' must be between %d and %d, got %d", MinK, MaxK, k),
		)
	}
	return Query{text: text, k: k}, nil
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// K returns the number of results requested.
func (q Query) K() int { return q.k }
