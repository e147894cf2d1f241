//go:build cgo

package embedding

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	fastembed "github.com/anush008/fastembed-go"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// FastEmbedAvailable reports whether this build can run ONNX models.
const FastEmbedAvailable = true

// modelMapping maps model names to fastembed model constants.
var modelMapping = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"all-MiniLM-L6-v2":                       fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
}

var modelDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.AllMiniLML6V2: 384,
	fastembed.BGESmallENV15: 384,
	fastembed.BGEBaseENV15:  768,
}

// FastEmbed runs a sentence-embedding model locally through ONNX runtime.
// The ONNX shared library is located through the ONNX_PATH environment variable.
// Blank texts are not run through the model and embed to the zero vector.
type FastEmbed struct {
	mu        sync.Mutex
	model     *fastembed.FlagEmbedding
	name      string
	dims      int
	batchSize int
}

// NewFastEmbed loads the model, downloading it into CacheDir on first run.
func NewFastEmbed(cfg FastEmbedConfig) (*FastEmbed, error) {
	cfg.applyDefaults()

	model, ok := modelMapping[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unsupported fastembed model %q", cfg.Model)
	}

	showProgress := false
	flag, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             filepath.Clean(cfg.CacheDir),
		MaxLength:            cfg.MaxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("init fastembed %s: %w", cfg.Model, err)
	}

	return &FastEmbed{model: flag, name: cfg.Model, dims: modelDimensions[model], batchSize: cfg.BatchSize}, nil
}

// Embed implements domain.Embedder.
func (f *FastEmbed) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := f.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res.Embeddings[0]}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (f *FastEmbed) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("fastembed: %w", err)
	}

	idx := make([]int, 0, len(texts))
	inputs := make([]string, 0, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) != "" {
			idx = append(idx, i)
			inputs = append(inputs, t)
		}
	}

	embeddings := make([][]float32, len(texts))
	for i := range embeddings {
		embeddings[i] = make([]float32, f.dims)
	}
	if len(inputs) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	vectors, err := f.model.Embed(inputs, f.batchSize)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(ProviderFastEmbed, f.name, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(ProviderFastEmbed, f.name, "inference").Inc()
		return domain.BatchEmbeddingResult{}, fmt.Errorf("fastembed inference: %v: %w", err, domain.ErrEmbeddingProviderError)
	}
	if len(vectors) != len(inputs) {
		metrics.EmbeddingErrorsTotal.WithLabelValues(ProviderFastEmbed, f.name, "count_mismatch").Inc()
		return domain.BatchEmbeddingResult{}, fmt.Errorf("fastembed returned %d vectors for %d texts: %w",
			len(vectors), len(inputs), domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(ProviderFastEmbed, f.name, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(ProviderFastEmbed, f.name).Observe(duration.Seconds())

	for j, i := range idx {
		embeddings[i] = vectors[j]
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

// Close releases the ONNX session.
func (f *FastEmbed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.model == nil {
		return nil
	}
	err := f.model.Destroy()
	f.model = nil
	if err != nil {
		return fmt.Errorf("destroy fastembed: %w", err)
	}
	return nil
}
