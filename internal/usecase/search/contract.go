package search

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// DocumentSource provides the ordered document set of a session.
type DocumentSource interface {
	Snapshot(ctx context.Context, sessionID string) ([]domdoc.Document, error)
	RecordQuery(ctx context.Context, sessionID, query string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
