package document

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
)

// DefaultMaxFileSize bounds a single uploaded file.
const DefaultMaxFileSize = 32 << 20

// Upload is one file handed over by a transport.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service manages the document set of each session.
type Service struct {
	repo        Repository
	extractor   Extractor
	maxFileSize int64
	logger      *zap.Logger
}

// New creates a document service.
func New(repo Repository, extractor Extractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		extractor:   extractor,
		maxFileSize: DefaultMaxFileSize,
		logger:      logger,
	}
}

// WithMaxFileSize configures the per-file size limit.
func (s *Service) WithMaxFileSize(n int64) *Service {
	if n > 0 {
		s.maxFileSize = n
	}
	return s
}

// Replace extracts the uploads and makes them the session's whole set.
func (s *Service) Replace(ctx context.Context, sessionID string, uploads []Upload) ([]domdoc.Document, error) {
	docs, err := s.build(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, sessionID, docs); err != nil {
		return nil, fmt.Errorf("replace documents: %w", err)
	}

	s.logger.Info("Document set replaced",
		zap.String("session", sessionID),
		zap.Int("documents", len(docs)),
	)
	return docs, nil
}

// Append extracts the uploads and adds them to the session's set.
func (s *Service) Append(ctx context.Context, sessionID string, uploads []Upload) ([]domdoc.Document, error) {
	docs, err := s.build(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, sessionID, docs); err != nil {
		return nil, fmt.Errorf("append documents: %w", err)
	}

	s.logger.Info("Documents appended",
		zap.String("session", sessionID),
		zap.Int("documents", len(docs)),
	)
	return docs, nil
}

// List returns the session's documents in upload order.
func (s *Service) List(ctx context.Context, sessionID string) ([]domdoc.Document, error) {
	docs, err := s.repo.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get retrieves one document by ID.
func (s *Service) Get(ctx context.Context, sessionID, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, sessionID, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes one document.
func (s *Service) Delete(ctx context.Context, sessionID, id string) error {
	if err := s.repo.Delete(ctx, sessionID, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Clear drops the session's documents and last query.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Info reports the session's document count and last query.
func (s *Service) Info(ctx context.Context, sessionID string) (domsession.Info, error) {
	info, err := s.repo.Info(ctx, sessionID)
	if err != nil {
		return domsession.Info{}, fmt.Errorf("session info: %w", err)
	}
	return info, nil
}

// build validates every upload before extracting any of them. One file failing
// to parse does not abort the batch: its text becomes the error message.
// A name repeated within one batch keeps its first position and its last content.
func (s *Service) build(ctx context.Context, uploads []Upload) ([]domdoc.Document, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no files uploaded: %w", domain.ErrInvalidDocument)
	}

	names := make([]string, len(uploads))
	for i, u := range uploads {
		name := baseName(u.Name)
		if err := domdoc.ValidateID(name); err != nil {
			return nil, fmt.Errorf("file %d: %w: %w", i, domain.ErrInvalidDocument, err)
		}
		if int64(len(u.Data)) > s.maxFileSize {
			return nil, fmt.Errorf("file %q is %d bytes (max %d): %w",
				name, len(u.Data), s.maxFileSize, domain.ErrUploadTooLarge)
		}
		names[i] = name
	}

	docs := make([]domdoc.Document, 0, len(uploads))
	pos := make(map[string]int, len(uploads))
	for i, u := range uploads {
		out := s.extractor.Extract(ctx, names[i], u.ContentType, u.Data)
		doc, err := domdoc.New(names[i], out.Text, out.ContentType, out.Status, int64(len(u.Data)))
		if err != nil {
			return nil, fmt.Errorf("file %q: %w: %w", names[i], domain.ErrInvalidDocument, err)
		}
		if j, ok := pos[names[i]]; ok {
			docs[j] = doc
			continue
		}
		pos[names[i]] = len(docs)
		docs = append(docs, doc)
	}
	return docs, nil
}

// baseName strips any client-side directory from an upload file name.
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}
