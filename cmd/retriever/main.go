package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/config"
	"github.com/kailas-cloud/retriever/internal/db"
	dbPinecone "github.com/kailas-cloud/retriever/internal/db/pinecone"
	dbRedis "github.com/kailas-cloud/retriever/internal/db/redis"
	"github.com/kailas-cloud/retriever/internal/domain"
	logpkg "github.com/kailas-cloud/retriever/internal/logger"
	"github.com/kailas-cloud/retriever/internal/metrics"
	searchrepo "github.com/kailas-cloud/retriever/internal/repository/search"
	chiTransport "github.com/kailas-cloud/retriever/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/retriever/internal/transport/openai"
	"github.com/kailas-cloud/retriever/internal/version"
	embeddinguc "github.com/kailas-cloud/retriever/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/retriever/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/retriever/internal/usecase/retrieval"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting retriever API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.String("index_name", cfg.Index.Name),
		zap.Strings("cors_origins", cfg.CORS.AllowedOrigins),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexMetrics()

	ctx := context.Background()

	index, err := openIndex(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open vector index", zap.Error(err))
	}
	defer index.Close()
	logger.Info("Connected to vector index")

	embedder := buildEmbedder(cfg.Embedding, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	searchRepo := searchrepo.New(index, searchrepo.Config{
		IndexName:    cfg.Index.Name,
		Namespace:    cfg.Index.Pinecone.Namespace,
		ContentField: cfg.Index.ContentField,
		Backend:      cfg.Index.Driver,
	})

	retrievalSvc := retrievaluc.New(embedder, searchRepo).
		WithTimeout(time.Duration(cfg.Retrieval.TimeoutSec) * time.Second)
	healthSvc := healthuc.New(index, embedder)

	server := chiTransport.NewServer(retrievalSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		CORS: chiTransport.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAgeSec:      cfg.CORS.MaxAgeSec,
		},
		Logger: logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openIndex connects to the configured vector index backend.
func openIndex(ctx context.Context, cfg config.Config) (db.Index, error) {
	switch cfg.Index.Driver {
	case config.DriverPinecone:
		store, err := dbPinecone.NewStore(ctx, dbPinecone.Config{
			APIKey:    cfg.Index.Pinecone.APIKey,
			IndexName: cfg.Index.Name,
			Host:      cfg.Index.Pinecone.Host,
			Namespace: cfg.Index.Pinecone.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("pinecone: %w", err)
		}
		return store, nil

	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.Index.Database.Addrs,
			Password:    cfg.Index.Database.Password,
			VectorField: cfg.Index.Database.VectorField,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Index.Driver, err)
		}
		timeout := time.Duration(cfg.Index.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Index.Driver, err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.Index.Driver)
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Instrumented.
func buildEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	// Base provider (with transport metrics built-in)
	var base domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	return embeddinguc.NewInstrumentedEmbedder(base, cfg.Provider, cfg.Model, logger)
}
