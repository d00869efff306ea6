package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentIndex     = "index"
	ComponentEmbedding = "embedding"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Errors map[string]error // failing components only
}

// Service coordinates health checks.
type Service struct {
	index     IndexPinger
	embedding EmbeddingChecker
	timeout   time.Duration
}

// New creates a Service. embedding can be nil.
func New(index IndexPinger, embedding EmbeddingChecker) *Service {
	return &Service{index: index, embedding: embedding, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-component probe timeout. Zero disables it.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Check probes all components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	probes := map[string]func(context.Context) error{
		ComponentIndex: s.index.Ping,
	}
	if s.embedding != nil {
		probes[ComponentEmbedding] = s.embedding.HealthCheck
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(probes))
		errs   = make(map[string]error)
	)
	for name, probe := range probes {
		name, probe := name, probe
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.run(ctx, probe)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[name] = CheckError
				errs[name] = err
				return
			}
			checks[name] = CheckOK
		}()
	}
	wg.Wait()

	status := Healthy
	switch {
	case len(errs) == len(checks):
		status = Unhealthy
	case len(errs) > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks, Errors: errs}
}

func (s *Service) run(ctx context.Context, probe func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return probe(ctx)
}
