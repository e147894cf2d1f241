package document

import (
	"context"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
	"github.com/kailas-cloud/docsearch/internal/extract"
)

// Repository defines the storage contract for session document sets.
type Repository interface {
	Replace(ctx context.Context, sessionID string, docs []domdoc.Document) error
	Append(ctx context.Context, sessionID string, docs []domdoc.Document) error
	Snapshot(ctx context.Context, sessionID string) ([]domdoc.Document, error)
	Get(ctx context.Context, sessionID, id string) (domdoc.Document, error)
	Delete(ctx context.Context, sessionID, id string) error
	Clear(ctx context.Context, sessionID string) error
	Info(ctx context.Context, sessionID string) (domsession.Info, error)
}

// Extractor turns one uploaded file into text. It never fails.
type Extractor interface {
	Extract(ctx context.Context, name, declaredType string, data []byte) extract.Outcome
}
