package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/metrics"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	CORS   CORSConfig
	Logger *zap.Logger
}

// NewRouter mounts the API routes behind the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(metrics.Middleware())

	r.Get("/retrieve", s.Retrieve)
	r.Get("/health", s.Health)
	r.Get("/ready", s.Ready)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
