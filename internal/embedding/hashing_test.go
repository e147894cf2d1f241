package embedding

import (
	"context"
	"math"
	"testing"
)

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestHashing_Deterministic(t *testing.T) {
	h := NewHashing(256)
	ctx := context.Background()

	a, err := h.Embed(ctx, "The cat sat on the mat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewHashing(256).Embed(ctx, "The cat sat on the mat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("component %d differs: %v vs %v", i, a.Embedding[i], b.Embedding[i])
		}
	}
}

func TestHashing_Normalised(t *testing.T) {
	res, err := NewHashing(128).Embed(context.Background(), "stock market rose today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 128 {
		t.Fatalf("len = %d, want 128", len(res.Embedding))
	}
	if n := norm(res.Embedding); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm = %v, want 1", n)
	}
}

func TestHashing_EmptyTextIsZeroVector(t *testing.T) {
	for _, text := range []string{"", "   ", "!!! ???"} {
		res, err := NewHashing(64).Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		if len(res.Embedding) != 64 {
			t.Fatalf("len = %d, want 64", len(res.Embedding))
		}
		if norm(res.Embedding) != 0 {
			t.Errorf("expected zero vector for %q", text)
		}
	}
}

func TestHashing_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	h := NewHashing(64)
	a, _ := h.Embed(ctx, "Hello World")
	b, _ := h.Embed(ctx, "hello world")
	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatal("embedding must not depend on letter case")
		}
	}
}

func TestHashing_BatchMatchesSingle(t *testing.T) {
	ctx := context.Background()
	h := NewHashing(64)
	texts := []string{"alpha", "beta gamma", ""}

	batch, err := h.BatchEmbed(ctx, texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Embeddings) != len(texts) {
		t.Fatalf("got %d embeddings", len(batch.Embeddings))
	}
	for i, text := range texts {
		single, _ := h.Embed(ctx, text)
		for j := range single.Embedding {
			if single.Embedding[j] != batch.Embeddings[i][j] {
				t.Fatalf("text %d component %d differs", i, j)
			}
		}
	}
}

func TestHashing_DefaultDimensions(t *testing.T) {
	if d := NewHashing(0).Dimensions(); d != 384 {
		t.Errorf("Dimensions() = %d, want 384", d)
	}
}

func TestHashing_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHashing(8).BatchEmbed(ctx, []string{"x"}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
