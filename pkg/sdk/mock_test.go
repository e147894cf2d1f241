package docsearch

import (
	"context"
	"sync"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
)

// --- Embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// batchEmbedder maps a text to a vector by keyword and counts calls.
type batchEmbedder struct {
	mu         sync.Mutex
	embeds     int
	batches    [][]string
	vectorFor  func(text string) []float32
	tokensEach int
}

func (b *batchEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	b.mu.Lock()
	b.embeds++
	b.mu.Unlock()
	return EmbeddingResult{Embedding: b.vectorFor(text), TotalTokens: b.tokensEach}, nil
}

func (b *batchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	b.mu.Lock()
	b.batches = append(b.batches, append([]string(nil), texts...))
	b.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = b.vectorFor(t)
	}
	return BatchEmbeddingResult{Embeddings: out, TotalTokens: b.tokensEach * len(texts)}, nil
}

// --- Use case mocks ---

type mockDocumentUC struct {
	replaceFn func(ctx context.Context, sessionID string, uploads []documentuc.Upload) ([]domdoc.Document, error)
	listFn    func(ctx context.Context, sessionID string) ([]domdoc.Document, error)
	deleteFn  func(ctx context.Context, sessionID, id string) error
}

func (m *mockDocumentUC) Replace(
	ctx context.Context, sessionID string, uploads []documentuc.Upload,
) ([]domdoc.Document, error) {
	return m.replaceFn(ctx, sessionID, uploads)
}

func (m *mockDocumentUC) Append(
	ctx context.Context, sessionID string, uploads []documentuc.Upload,
) ([]domdoc.Document, error) {
	return m.replaceFn(ctx, sessionID, uploads)
}

func (m *mockDocumentUC) List(ctx context.Context, sessionID string) ([]domdoc.Document, error) {
	return m.listFn(ctx, sessionID)
}

func (m *mockDocumentUC) Get(context.Context, string, string) (domdoc.Document, error) {
	return domdoc.Document{}, ErrDocumentNotFound
}

func (m *mockDocumentUC) Delete(ctx context.Context, sessionID, id string) error {
	return m.deleteFn(ctx, sessionID, id)
}

func (m *mockDocumentUC) Clear(context.Context, string) error { return nil }

func (m *mockDocumentUC) Info(context.Context, string) (domsession.Info, error) {
	return domsession.Info{}, nil
}

type mockSearchUC struct {
	fn func(ctx context.Context, sessionID string, req *request.Request) (result.Set, error)
}

func (m *mockSearchUC) Search(ctx context.Context, sessionID string, req *request.Request) (result.Set, error) {
	return m.fn(ctx, sessionID, req)
}
