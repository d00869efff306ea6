package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/retriever/internal/db"
	"github.com/kailas-cloud/retriever/internal/domain"
	logpkg "github.com/kailas-cloud/retriever/internal/logger"
	"github.com/kailas-cloud/retriever/internal/metrics"
)

func TestSearchKNN_BuildsQuery(t *testing.T) {
	repo, ms := newTestRepo(t, "query-shape")

	var captured *db.KNNQuery
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		captured = q
		return &db.SearchResult{}, nil
	}

	if _, err := repo.SearchKNN(context.Background(), testVector(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.IndexName != "incidents" || captured.Namespace != "ns" {
		t.Errorf("unexpected target: %s/%s", captured.IndexName, captured.Namespace)
	}
	if captured.K != 7 {
		t.Errorf("K = %d, expected 7", captured.K)
	}
	want := []string{"text", "incident_id", "crash_num", "incident_date"}
	if !slices.Equal(captured.ReturnFields, want) {
		t.Errorf("ReturnFields = %v, expected %v", captured.ReturnFields, want)
	}
}

func TestSearchKNN_MapsDocuments(t *testing.T) {
	repo, ms := newTestRepo(t, "map")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			entry("a", 0.92, map[string]any{
				"text":          "Vehicle ran a red light",
				"incident_id":   "INC-001",
				"crash_num":     float64(42),
				"incident_date": "2023-05-01",
				"source":        "police-report.pdf",
			}),
			entry("b", 0.81, map[string]any{"text": "Cyclist struck", "incident_id": "INC-002"}),
		}}, nil
	}

	docs, err := repo.SearchKNN(context.Background(), testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}

	first := docs[0]
	if first.ID() != "a" || first.Content() != "Vehicle ran a red light" || first.Score() != 0.92 {
		t.Errorf("unexpected first doc: %s %q %f", first.ID(), first.Content(), first.Score())
	}
	md := first.Metadata()
	if md.IncidentID != "INC-001" || md.CrashNum != float64(42) || md.IncidentDate != "2023-05-01" {
		t.Errorf("unexpected metadata: %+v", md)
	}

	second := docs[1].Metadata()
	if second.CrashNum != nil || second.IncidentDate != nil {
		t.Errorf("missing keys should be nil, got %+v", second)
	}
}

func TestSearchKNN_SkipsEntriesWithoutText(t *testing.T) {
	repo, ms := newTestRepo(t, "skip")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Entries: []db.SearchEntry{
			entry("no-text", 0.99, map[string]any{"incident_id": "X"}),
			entry("ok", 0.5, map[string]any{"text": "Rear-end collision"}),
		}}, nil
	}

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logpkg.ContextWithLogger(context.Background(), zap.New(core))

	docs, err := repo.SearchKNN(ctx, testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "ok" {
		t.Fatalf("expected only the entry with text, got %d docs", len(docs))
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning, got %d", logs.Len())
	}
}

func TestSearchKNN_TruncatesToK(t *testing.T) {
	repo, ms := newTestRepo(t, "truncate")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		var entries []db.SearchEntry
		for _, id := range []string{"1", "2", "3", "4"} {
			entries = append(entries, entry(id, 0.5, map[string]any{"text": "t" + id}))
		}
		return &db.SearchResult{Entries: entries}, nil
	}

	docs, err := repo.SearchKNN(context.Background(), testVector(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[1].ID() != "2" {
		t.Fatalf("expected first 2 docs in order, got %d", len(docs))
	}
}

func TestSearchKNN_EmptyResult(t *testing.T) {
	repo, ms := newTestRepo(t, "empty")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, nil
	}

	docs, err := repo.SearchKNN(context.Background(), testVector(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", docs)
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t, "store-error")
	storeErr := &db.Error{Op: db.OpQuery, Err: errors.New("503 unavailable")}
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.SearchKNN(context.Background(), testVector(), 3)
	if !errors.Is(err, domain.ErrIndexProviderError) {
		t.Fatalf("expected ErrIndexProviderError, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("expected db.Error in chain, got %v", err)
	}

	if got := testutil.ToFloat64(metrics.IndexQueriesTotal.WithLabelValues("store-error", "error")); got != 1 {
		t.Errorf("error counter = %v, expected 1", got)
	}
}

func TestSearchKNN_CustomContentField(t *testing.T) {
	ms := &mockStore{searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.ReturnFields[0] != "page_content" {
			t.Errorf("content field not requested: %v", q.ReturnFields)
		}
		return &db.SearchResult{Entries: []db.SearchEntry{
			entry("x", 0.7, map[string]any{"page_content": "Hit and run"}),
		}}, nil
	}}
	repo := New(ms, Config{IndexName: "idx", ContentField: "page_content", Backend: "custom"})

	docs, err := repo.SearchKNN(context.Background(), testVector(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Content() != "Hit and run" {
		t.Fatalf("unexpected docs: %v", docs)
	}
	if got := testutil.ToFloat64(metrics.IndexQueriesTotal.WithLabelValues("custom", "success")); got != 1 {
		t.Errorf("success counter = %v, expected 1", got)
	}
}
