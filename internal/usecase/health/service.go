package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a failing optional component (the cache).
	Degraded Status = "degraded"
	// Unhealthy indicates documents cannot be ranked.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckPending indicates a lazily loaded component not loaded yet.
	CheckPending CheckResult = "pending"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	embedding EmbeddingChecker
	model     ModelState
	cache     CachePinger
}

// New creates a Service. model and cache can be nil.
func New(embedding EmbeddingChecker, model ModelState, cache CachePinger) *Service {
	return &Service{embedding: embedding, model: model, cache: cache}
}

// Check runs health checks against all components.
// Checking never forces the embedding model to load.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
		status = Unhealthy
	} else {
		checks["embedding"] = CheckOK
	}

	if s.model != nil {
		if s.model.Loaded() {
			checks["model"] = CheckOK
		} else {
			checks["model"] = CheckPending
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["cache"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
