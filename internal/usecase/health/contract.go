package health

import "context"

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelState reports whether the embedding model has been loaded.
type ModelState interface {
	Loaded() bool
}
