package docsearch

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
)

// DocumentService manages the document set of a single session.
type DocumentService struct {
	session string
	svc     documentUseCase
	obs     *observer
}

// Replace swaps the session's document set for the given files, in order.
// Files that cannot be read still become documents carrying the error text.
func (s *DocumentService) Replace(ctx context.Context, uploads ...Upload) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("documents.replace", start, err, "session", s.session) }()

	id, err := normalizeSession(s.session)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Replace(ctx, id, toInternalUploads(uploads))
	if err != nil {
		return nil, fmt.Errorf("replace documents: %w", err)
	}
	return fromInternalDocuments(out), nil
}

// Append adds files to the session's set. A file named like an existing
// document replaces it in place.
func (s *DocumentService) Append(ctx context.Context, uploads ...Upload) (docs []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("documents.append", start, err, "session", s.session) }()

	id, err := normalizeSession(s.session)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Append(ctx, id, toInternalUploads(uploads))
	if err != nil {
		return nil, fmt.Errorf("append documents: %w", err)
	}
	return fromInternalDocuments(out), nil
}

// List returns the session's documents in upload order.
func (s *DocumentService) List(ctx context.Context) ([]Document, error) {
	id, err := normalizeSession(s.session)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return fromInternalDocuments(out), nil
}

// Get retrieves a document by its file name.
func (s *DocumentService) Get(ctx context.Context, name string) (Document, error) {
	id, err := normalizeSession(s.session)
	if err != nil {
		return Document{}, err
	}
	d, err := s.svc.Get(ctx, id, name)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Remove deletes a document by its file name.
func (s *DocumentService) Remove(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("documents.remove", start, err, "session", s.session) }()

	id, err := normalizeSession(s.session)
	if err != nil {
		return err
	}
	if err = s.svc.Delete(ctx, id, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Clear drops the whole session.
func (s *DocumentService) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("documents.clear", start, err, "session", s.session) }()

	id, err := normalizeSession(s.session)
	if err != nil {
		return err
	}
	if err = s.svc.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Info summarizes the session.
func (s *DocumentService) Info(ctx context.Context) (SessionInfo, error) {
	id, err := normalizeSession(s.session)
	if err != nil {
		return SessionInfo{}, err
	}
	info, err := s.svc.Info(ctx, id)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("session info: %w", err)
	}
	return SessionInfo{Documents: info.Documents, LastQuery: info.LastQuery}, nil
}

func toInternalUploads(uploads []Upload) []documentuc.Upload {
	out := make([]documentuc.Upload, len(uploads))
	for i, u := range uploads {
		out[i] = documentuc.Upload{Name: u.Name, ContentType: u.ContentType, Data: u.Data}
	}
	return out
}

func fromInternalDocuments(docs []domdoc.Document) []Document {
	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = fromInternalDocument(docs[i])
	}
	return out
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:          d.ID(),
		ContentType: d.ContentType(),
		Status:      DocumentStatus(d.Status()),
		Size:        d.Size(),
		Text:        d.Text(),
	}
}
