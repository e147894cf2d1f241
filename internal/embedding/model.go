package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Loader builds the embedder behind a Model.
type Loader func(ctx context.Context) (domain.Embedder, error)

// Model is the process-wide embedding capability. The loader runs once, on
// first use; concurrent callers wait for it. A failed load is permanent and
// every later call reports domain.ErrModelUnavailable.
type Model struct {
	provider string
	load     Loader
	logger   *zap.Logger

	once   sync.Once
	loaded atomic.Bool
	inner  domain.Embedder
	err    error
}

// NewModel wraps a loader. Nothing is loaded until the first embedding call.
func NewModel(provider string, load Loader, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{provider: provider, load: load, logger: logger}
}

var errNoEmbedder = errors.New("loader returned no embedder")

func (m *Model) get(ctx context.Context) (domain.Embedder, error) {
	m.once.Do(func() {
		start := time.Now()
		// The first caller's cancellation must not poison the shared model.
		inner, err := m.load(context.WithoutCancel(ctx))
		duration := time.Since(start)
		if err == nil && inner == nil {
			err = errNoEmbedder
		}

		if err != nil {
			m.err = fmt.Errorf("%w: %s: %w", domain.ErrModelUnavailable, m.provider, err)
			metrics.EmbeddingModelLoadDuration.WithLabelValues(m.provider, "error").Observe(duration.Seconds())
			m.logger.Error("Embedding model failed to load",
				zap.String("provider", m.provider),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			m.inner = inner
			metrics.EmbeddingModelLoadDuration.WithLabelValues(m.provider, "success").Observe(duration.Seconds())
			m.logger.Info("Embedding model loaded",
				zap.String("provider", m.provider),
				zap.Duration("duration", duration),
			)
		}
		m.loaded.Store(true)
	})
	return m.inner, m.err
}

// Warm loads the model ahead of the first query.
func (m *Model) Warm(ctx context.Context) error {
	_, err := m.get(ctx)
	return err
}

// Loaded reports whether a load attempt has completed.
func (m *Model) Loaded() bool { return m.loaded.Load() }

// Embed implements domain.Embedder.
func (m *Model) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	inner, err := m.get(ctx)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	res, err := inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("model embed: %w", err)
	}
	return res, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (m *Model) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	inner, err := m.get(ctx)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	res, err := domain.EmbedBatch(ctx, inner, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("model batch embed: %w", err)
	}
	return res, nil
}

// HealthCheck reports a failed load. A model not loaded yet is healthy.
func (m *Model) HealthCheck(ctx context.Context) error {
	if !m.Loaded() {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if hc, ok := m.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s health check: %w", m.provider, err)
		}
	}
	return nil
}

// Close releases the loaded embedder at process shutdown.
func (m *Model) Close() error {
	if !m.Loaded() || m.inner == nil {
		return nil
	}
	if c, ok := m.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
