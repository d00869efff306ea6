package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/document"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/query"
)

// Response is the outcome of a successful retrieval.
type Response struct {
	Query     string
	K         int
	Documents []document.Document // never nil, len <= K
}

// ProviderFailure reports that the embedding or index provider failed.
// Message is the provider's explanation, safe to show to the caller.
type ProviderFailure struct {
	Message string
	Err     error
}

func (f *ProviderFailure) Error() string {
	return f.Message
}

// Unwrap exposes both ErrProviderFailure and the underlying cause.
func (f *ProviderFailure) Unwrap() []error {
	return []error{domain.ErrProviderFailure, f.Err}
}

// Service turns a query into the nearest stored passages.
type Service struct {
	embed   Embedder
	search  Searcher
	timeout time.Duration
}

// New creates a retrieval service.
func New(embed Embedder, search Searcher) *Service {
	return &Service{embed: embed, search: search}
}

// WithTimeout bounds the provider calls of a single Retrieve. Zero disables it.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Retrieve embeds the query text and returns up to q.K() nearest passages.
// Provider errors are returned as *ProviderFailure. No retry is attempted.
func (s *Service) Retrieve(ctx context.Context, q query.Query) (Response, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return Response{}, newProviderFailure(err)
	}

	docs, err := s.search.SearchKNN(ctx, emb.Embedding, q.K())
	if err != nil {
		return Response{}, newProviderFailure(err)
	}

	if docs == nil {
		docs = []document.Document{}
	}
	if len(docs) > q.K() {
		docs = docs[:q.K()]
	}

	return Response{Query: q.Text(), K: q.K(), Documents: docs}, nil
}

func newProviderFailure(err error) *ProviderFailure {
	var pf *ProviderFailure
	if errors.As(err, &pf) {
		return pf
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderFailure{Message: fmt.Sprintf("provider timed out: %v", err), Err: err}
	}
	return &ProviderFailure{Message: err.Error(), Err: err}
}
