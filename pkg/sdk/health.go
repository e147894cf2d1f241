package docsearch

import (
	"context"

	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	"github.com/kailas-cloud/docsearch/internal/version"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status  string            // "ok", "degraded", "error"
	Checks  map[string]string // component → "ok"/"pending"/"error"
	Version string            // build of the docsearch module
}

// Health checks the embedding model and the cache. It never loads the model.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.String(),
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
