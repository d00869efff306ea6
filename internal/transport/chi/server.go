package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/retriever/internal/domain"
	"github.com/kailas-cloud/retriever/internal/domain/retrieval/query"
	logpkg "github.com/kailas-cloud/retriever/internal/logger"
	healthuc "github.com/kailas-cloud/retriever/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/retriever/internal/usecase/retrieval"
)

// retrieveErrorPrefix is prepended to provider messages in 500 responses.
const retrieveErrorPrefix = "Error retrieving results: "

// Retriever runs the retrieval use case.
type Retriever interface {
	Retrieve(ctx context.Context, q query.Query) (retrievaluc.Response, error)
}

// HealthChecker produces a readiness report.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the retrieval HTTP API.
type Server struct {
	retrieval     Retriever
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. health can be nil, in which case /ready always reports ok.
func NewServer(retrieval Retriever, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		retrieval: retrieval,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		providerFailureHandler,
	}
	return s
}

// Retrieve handles GET /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	params, err := bindRetrieveParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	q, err := params.toQuery()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	// A started provider call runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	resp, err := s.retrieval.Retrieve(ctx, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponseFromDomain(resp))
}

// Health handles GET /health. Liveness only: never touches providers.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Ready handles GET /ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, ReadyResponse{Status: string(healthuc.Healthy), Checks: map[string]string{}})
		return
	}

	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	for name, err := range report.Errors {
		logpkg.FromContextOr(r.Context(), s.logger).Warn("readiness check failed",
			zap.String("component", name),
			zap.Error(err),
		)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadyResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// validationHandler maps malformed requests to 400.
func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeDetail(w, http.StatusBadRequest, ve.Message)
		return true
	}
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

// providerFailureHandler maps embedding/index failures to 500 with the provider message.
func providerFailureHandler(w http.ResponseWriter, err error) bool {
	var pf *retrievaluc.ProviderFailure
	if errors.As(err, &pf) {
		writeDetail(w, http.StatusInternalServerError, retrieveErrorPrefix+pf.Message)
		return true
	}
	if errors.Is(err, domain.ErrProviderFailure) {
		writeDetail(w, http.StatusInternalServerError, retrieveErrorPrefix+err.Error())
		return true
	}
	return false
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeDetail(w, http.StatusInternalServerError, "internal error")
}
