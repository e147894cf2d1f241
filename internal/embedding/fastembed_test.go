//go:build cgo

package embedding

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/docsearch/internal/metrics"
)

func TestFastEmbed_MiniLM(t *testing.T) {
	if os.Getenv("DOCSEARCH_FASTEMBED_TEST") == "" {
		t.Skip("set DOCSEARCH_FASTEMBED_TEST=1 to run against the ONNX model")
	}

	fe, err := NewFastEmbed(FastEmbedConfig{CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFastEmbed() = %v", err)
	}
	defer func() { _ = fe.Close() }()

	texts := metrics.EmbeddingTextsTotal.WithLabelValues(ProviderFastEmbed, fe.name)
	before := testutil.ToFloat64(texts)

	res, err := fe.BatchEmbed(context.Background(), []string{"cat sat on mat", "", "  "})
	if err != nil {
		t.Fatalf("BatchEmbed() = %v", err)
	}
	if after := testutil.ToFloat64(texts); after != before {
		t.Errorf("provider counted texts (%v -> %v); InstrumentedEmbedder owns that metric", before, after)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("got %d embeddings", len(res.Embeddings))
	}
	for i, v := range res.Embeddings {
		if len(v) != 384 {
			t.Errorf("embedding %d: dimensions = %d, want 384", i, len(v))
		}
	}
	for i := 1; i < 3; i++ {
		for _, x := range res.Embeddings[i] {
			if x != 0 {
				t.Fatalf("blank text %d must embed to the zero vector", i)
			}
		}
	}

	again, err := fe.Embed(context.Background(), "cat sat on mat")
	if err != nil {
		t.Fatalf("Embed() = %v", err)
	}
	for i := range again.Embedding {
		if again.Embedding[i] != res.Embeddings[0][i] {
			t.Fatalf("component %d differs between runs: %v vs %v", i, again.Embedding[i], res.Embeddings[0][i])
		}
	}
}

func TestNewFastEmbed_UnknownModel(t *testing.T) {
	if _, err := NewFastEmbed(FastEmbedConfig{Model: "no-such-model"}); err == nil {
		t.Fatal("expected error for unknown model")
	}
}
