// Package embedding holds the local embedding providers and the lazily
// loaded process-wide model.
package embedding

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Feature weights of the hashing embedder.
const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Hashing is a deterministic embedder built on signed feature hashing of
// lower-cased word unigrams and character trigrams. Vectors are L2-normalised;
// text without letters or digits maps to the zero vector.
type Hashing struct {
	dim int
}

// NewHashing creates a hashing embedder with dim dimensions (default 384).
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = domain.DefaultDimensions
	}
	return &Hashing{dim: dim}
}

// Dimensions returns the vector size.
func (h *Hashing) Dimensions() int { return h.dim }

// Embed implements domain.Embedder.
func (h *Hashing) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("hashing embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: h.vector(text)}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (h *Hashing) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("hashing batch embed: %w", err)
		}
		out[i] = h.vector(text)
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

func (h *Hashing) vector(text string) []float32 {
	acc := make([]float64, h.dim)

	for _, tok := range tokenRegex.FindAllString(strings.ToLower(text), -1) {
		h.add(acc, "w:"+tok, wordWeight)

		runes := []rune("#" + tok + "#")
		for i := 0; i+3 <= len(runes); i++ {
			h.add(acc, "c:"+string(runes[i:i+3]), trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}

	vec := make([]float32, h.dim)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// add hashes feature into a bucket; the top bit of the hash picks the sign.
func (h *Hashing) add(acc []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
