package domain

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type stubEmbedder struct {
	result EmbeddingResult
	err    error
	calls  []string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.calls = append(s.calls, text)
	return s.result, s.err
}

type stubBatchEmbedder struct {
	stubEmbedder
	batchResult BatchEmbeddingResult
	batchErr    error
	batchCalls  [][]string
}

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	s.batchCalls = append(s.batchCalls, texts)
	return s.batchResult, s.batchErr
}

// --- Tests ---

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	emb := NewInstructionEmbedder(inner, "passage: ")

	result, err := emb.Embed(context.Background(), "cat sat on mat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.calls) != 1 || inner.calls[0] != "passage: cat sat on mat" {
		t.Errorf("expected prefixed text, got %v", inner.calls)
	}
	if len(result.Embedding) != 3 {
		t.Errorf("expected 3-element vector, got %d", len(result.Embedding))
	}
}

func TestInstructionEmbedder_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	emb := NewInstructionEmbedder(&stubEmbedder{err: innerErr}, "query: ")

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestInstructionEmbedder_BatchEmbed_UsesSingleBatchCall(t *testing.T) {
	inner := &stubBatchEmbedder{batchResult: BatchEmbeddingResult{
		Embeddings:  [][]float32{{0.1}, {0.2}},
		TotalTokens: 20,
	}}
	emb := NewInstructionEmbedder(inner, "q: ")

	res, err := emb.BatchEmbed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.batchCalls) != 1 {
		t.Fatalf("expected 1 batch call, got %d", len(inner.batchCalls))
	}
	if got := inner.batchCalls[0]; got[0] != "q: hello" || got[1] != "q: world" {
		t.Errorf("expected prefixed texts, got %v", got)
	}
	if len(inner.calls) != 0 {
		t.Errorf("expected no single Embed calls, got %d", len(inner.calls))
	}
	if res.TotalTokens != 20 {
		t.Errorf("TotalTokens = %d, want 20", res.TotalTokens)
	}
}

func TestBatchFallback_SumsUsage(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{
		Embedding:    []float32{0.1, 0.2},
		PromptTokens: 5,
		TotalTokens:  5,
	}}
	res, err := BatchFallback(context.Background(), inner, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.TotalTokens != 15 || res.PromptTokens != 15 {
		t.Errorf("usage = %d/%d, want 15/15", res.PromptTokens, res.TotalTokens)
	}
}

func TestBatchFallback_Error(t *testing.T) {
	innerErr := errors.New("fail")
	_, err := BatchFallback(context.Background(), &stubEmbedder{err: innerErr}, []string{"a"})
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	inner := &stubBatchEmbedder{}
	res, err := EmbedBatch(context.Background(), inner, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 {
		t.Errorf("expected no embeddings, got %d", len(res.Embeddings))
	}
	if len(inner.batchCalls) != 0 {
		t.Error("embedder must not be called for an empty batch")
	}
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	inner := &stubBatchEmbedder{batchResult: BatchEmbeddingResult{Embeddings: [][]float32{{1}}}}

	_, err := EmbedBatch(context.Background(), inner, []string{"a", "b"})
	if !errors.Is(err, ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedBatch_FallsBackForSingleEmbedders(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{Embedding: []float32{1, 0}}}

	res, err := EmbedBatch(context.Background(), inner, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 || len(inner.calls) != 2 {
		t.Errorf("expected 2 embeddings from 2 calls, got %d/%d", len(res.Embeddings), len(inner.calls))
	}
}

func TestExtractionError_Message(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewExtractionError("PDF file", cause)

	if err.Error() != "error reading PDF file: unexpected EOF" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestEmbeddingUsage_NilSafe(t *testing.T) {
	var u *EmbeddingUsage
	u.Record(3, 10)
	if u.Embedded() {
		t.Error("nil usage must not report embedding")
	}

	if UsageFromContext(context.Background()) != nil {
		t.Error("expected nil usage for a bare context")
	}

	ctx, usage := NewContextWithUsage(context.Background())
	if usage.Embedded() {
		t.Error("fresh usage must not report embedding")
	}
	UsageFromContext(ctx).Record(3, 7)
	UsageFromContext(ctx).Record(1, 0)
	if usage.Texts != 4 || usage.TotalTokens != 7 || !usage.Embedded() {
		t.Errorf("usage = %+v, want 4 texts and 7 tokens", usage)
	}
}
