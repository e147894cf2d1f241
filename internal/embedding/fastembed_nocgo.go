//go:build !cgo

package embedding

import (
	"context"
	"errors"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// FastEmbedAvailable reports whether this build can run ONNX models.
const FastEmbedAvailable = false

// ErrFastEmbedNotAvailable is returned when the binary was built without cgo.
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without cgo)")

// FastEmbed is a stub for builds without cgo.
type FastEmbed struct{}

// NewFastEmbed always fails without cgo.
func NewFastEmbed(_ FastEmbedConfig) (*FastEmbed, error) {
	return nil, ErrFastEmbedNotAvailable
}

// Embed implements domain.Embedder.
func (f *FastEmbed) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, ErrFastEmbedNotAvailable
}

// BatchEmbed implements domain.BatchEmbedder.
func (f *FastEmbed) BatchEmbed(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{}, ErrFastEmbedNotAvailable
}

// Close is a no-op.
func (f *FastEmbed) Close() error { return nil }
