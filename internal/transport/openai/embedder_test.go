package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// openaiEmbeddingResponse mirrors the OpenAI-compatible API embedding response.
type openaiEmbeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func embeddingServer(t *testing.T, vec []float32, tokens int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openaiEmbeddingResponse{Object: "list", Model: "test-model"}
		if vec != nil {
			resp.Data = append(resp.Data, embeddingItem{Object: "embedding", Embedding: vec})
		}
		resp.Usage.PromptTokens = tokens
		resp.Usage.TotalTokens = tokens

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEmbedder(baseURL, provider string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Model:    "test-model",
		Provider: provider,
		Logger:   zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Input      []string `json:"input"`
			Model      string   `json:"model"`
			Dimensions int      `json:"dimensions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Input) != 1 || req.Input[0] != "pedestrian struck at night" {
			t.Errorf("unexpected input: %v", req.Input)
		}
		if req.Dimensions != 4 {
			t.Errorf("dimensions = %d, expected 4", req.Dimensions)
		}

		resp := openaiEmbeddingResponse{Object: "list", Model: "test-model"}
		resp.Data = append(resp.Data, embeddingItem{Object: "embedding", Embedding: expectedVec})
		resp.Usage.PromptTokens = 10
		resp.Usage.TotalTokens = 10

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	emb := NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: 4,
		Provider:   "test",
		Logger:     zap.NewNop(),
	})

	result, err := emb.Embed(context.Background(), "pedestrian struck at night")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(result.Embedding) != len(expectedVec) {
		t.Fatalf("expected %d dimensions, got %d", len(expectedVec), len(result.Embedding))
	}
	for i, v := range result.Embedding {
		if v != expectedVec[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, v, expectedVec[i])
		}
	}
}

func TestEmbedder_DefaultModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		resp := openaiEmbeddingResponse{Object: "list"}
		resp.Data = append(resp.Data, embeddingItem{Object: "embedding", Embedding: []float32{1}})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	emb := NewEmbedder(&Config{APIKey: "k", BaseURL: server.URL})
	if _, err := emb.Embed(context.Background(), "q"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if gotModel != "text-embedding-3-small" {
		t.Errorf("model = %q, expected text-embedding-3-small", gotModel)
	}
}

func TestEmbedder_EmbedReturnsUsage(t *testing.T) {
	server := embeddingServer(t, []float32{0.1, 0.2}, 42)
	defer server.Close()

	result, err := newTestEmbedder(server.URL, "usage").Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if result.PromptTokens != 42 {
		t.Errorf("PromptTokens = %d, expected 42", result.PromptTokens)
	}
	if result.TotalTokens != 42 {
		t.Errorf("TotalTokens = %d, expected 42", result.TotalTokens)
	}
	if len(result.Embedding) != 2 {
		t.Errorf("embedding length = %d, expected 2", len(result.Embedding))
	}

	got := testutil.ToFloat64(metrics.EmbeddingTokensTotal.WithLabelValues("usage", "test-model", "total"))
	if got != 42 {
		t.Errorf("tokens metric = %v, expected 42", got)
	}
}

func TestEmbedder_EmptyResponse(t *testing.T) {
	server := embeddingServer(t, nil, 0)
	defer server.Close()

	_, err := newTestEmbedder(server.URL, "empty").Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}

	got := testutil.ToFloat64(metrics.EmbeddingErrorsTotal.WithLabelValues("empty", "test-model", "empty_response"))
	if got != 1 {
		t.Errorf("empty_response errors = %v, expected 1", got)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Incorrect API key provided",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL, "apierr").Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error should carry provider message, got %q", err.Error())
	}

	got := testutil.ToFloat64(metrics.EmbeddingRequestsTotal.WithLabelValues("apierr", "test-model", "error"))
	if got != 1 {
		t.Errorf("error requests = %v, expected 1", got)
	}
}

func TestEmbedder_GatewayDetailError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"upstream unavailable"}`))
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL, "gateway").Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("expected detail in error, got %q", err.Error())
	}
}

func TestEmbedder_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"text-embedding-3-small","object":"model"}]}`))
	}))
	defer server.Close()

	if err := newTestEmbedder(server.URL, "test").HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbedder_HealthCheck_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if err := newTestEmbedder(server.URL, "test").HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"bad"}`)); got != "bad" {
		t.Errorf("got %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
