package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/extract"
	"github.com/kailas-cloud/docsearch/internal/repository/session"
)

// --- Mocks ---

// upperExtractor returns the upper-cased payload, or a failure for "bad" data.
type upperExtractor struct {
	calls int
}

func (m *upperExtractor) Extract(_ context.Context, _, declaredType string, data []byte) extract.Outcome {
	m.calls++
	if string(data) == "bad" {
		return extract.Outcome{
			Text:        "error reading text file: broken",
			ContentType: declaredType,
			Status:      domdoc.StatusFailed,
			Err:         errors.New("broken"),
		}
	}
	return extract.Outcome{
		Text:        strings.ToUpper(string(data)),
		ContentType: declaredType,
		Status:      domdoc.StatusExtracted,
	}
}

type failingRepo struct {
	Repository
	err error
}

func (m *failingRepo) Replace(context.Context, string, []domdoc.Document) error { return m.err }

func newService() (*Service, *upperExtractor) {
	ext := &upperExtractor{}
	return New(session.New(0, 0), ext, nil), ext
}

func textUpload(name, body string) Upload {
	return Upload{Name: name, ContentType: "text/plain", Data: []byte(body)}
}

// --- Tests ---

func TestReplace_ExtractsInOrder(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	docs, err := svc.Replace(ctx, "s", []Upload{textUpload("b.txt", "bee"), textUpload("a.txt", "ay")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID() != "b.txt" || docs[1].Text() != "AY" {
		t.Fatalf("unexpected docs: %+v", docs)
	}

	listed, _ := svc.List(ctx, "s")
	if len(listed) != 2 || listed[0].ID() != "b.txt" {
		t.Errorf("list order not preserved: %+v", listed)
	}
}

func TestReplace_FailedExtractionStaysInSet(t *testing.T) {
	svc, _ := newService()

	docs, err := svc.Replace(context.Background(), "s", []Upload{
		textUpload("good.txt", "fine"),
		textUpload("broken.txt", "bad"),
	})
	if err != nil {
		t.Fatalf("one bad file must not abort the batch: %v", err)
	}
	if docs[1].Status() != domdoc.StatusFailed {
		t.Errorf("status = %s, want failed", docs[1].Status())
	}
	if !strings.HasPrefix(docs[1].Text(), "error reading") {
		t.Errorf("text = %q, want error message", docs[1].Text())
	}
}

func TestReplace_NoFiles(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Replace(context.Background(), "s", nil); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestReplace_InvalidNameRejectsBatchBeforeExtraction(t *testing.T) {
	svc, ext := newService()

	_, err := svc.Replace(context.Background(), "s", []Upload{textUpload("a.txt", "x"), textUpload("  ", "y")})
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if ext.calls != 0 {
		t.Errorf("extractor called %d times, want 0", ext.calls)
	}
}

func TestReplace_TooLarge(t *testing.T) {
	svc, _ := newService()
	svc.WithMaxFileSize(4)

	_, err := svc.Replace(context.Background(), "s", []Upload{textUpload("a.txt", "12345")})
	if !errors.Is(err, domain.ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
}

func TestReplace_StripsClientDirectories(t *testing.T) {
	svc, _ := newService()

	docs, err := svc.Replace(context.Background(), "s", []Upload{
		textUpload(`C:\Users\me\notes.txt`, "x"),
		textUpload("docs/report.txt", "y"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs[0].ID() != "notes.txt" || docs[1].ID() != "report.txt" {
		t.Errorf("ids = %q, %q", docs[0].ID(), docs[1].ID())
	}
}

func TestReplace_DuplicateNameKeepsFirstPositionLastContent(t *testing.T) {
	svc, _ := newService()

	docs, err := svc.Replace(context.Background(), "s", []Upload{
		textUpload("a.txt", "one"),
		textUpload("b.txt", "two"),
		textUpload("a.txt", "three"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID() != "a.txt" || docs[0].Text() != "THREE" {
		t.Errorf("unexpected docs: %d, first %q=%q", len(docs), docs[0].ID(), docs[0].Text())
	}
}

func TestReplace_RepoError(t *testing.T) {
	repoErr := errors.New("boom")
	svc := New(&failingRepo{err: repoErr}, &upperExtractor{}, nil)

	if _, err := svc.Replace(context.Background(), "s", []Upload{textUpload("a.txt", "x")}); !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestAppendGetDeleteClear(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _ = svc.Replace(ctx, "s", []Upload{textUpload("a.txt", "a")})
	if _, err := svc.Append(ctx, "s", []Upload{textUpload("b.txt", "b")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := svc.Get(ctx, "s", "b.txt")
	if err != nil || doc.Text() != "B" {
		t.Fatalf("Get = %q, %v", doc.Text(), err)
	}

	if err := svc.Delete(ctx, "s", "a.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, "s", "a.txt"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}

	info, _ := svc.Info(ctx, "s")
	if info.Documents != 1 {
		t.Errorf("documents = %d, want 1", info.Documents)
	}

	_ = svc.Clear(ctx, "s")
	docs, _ := svc.List(ctx, "s")
	if len(docs) != 0 {
		t.Errorf("expected empty set after clear, got %d", len(docs))
	}
}

func TestReplace_WithDefaultRegistry(t *testing.T) {
	svc := New(session.New(0, 0), extract.Default(nil), nil)

	docs, err := svc.Replace(context.Background(), "s", []Upload{
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello world")},
		{Name: "blob.bin", ContentType: "application/x-custom", Data: []byte{0, 1, 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs[0].Text() != "hello world" || docs[0].Status() != domdoc.StatusExtracted {
		t.Errorf("text doc = %q (%s)", docs[0].Text(), docs[0].Status())
	}
	if docs[1].Status() != domdoc.StatusUnsupported {
		t.Errorf("binary doc status = %s, want unsupported", docs[1].Status())
	}
	if docs[1].Text() != "unsupported file type: application/x-custom" {
		t.Errorf("binary doc text = %q", docs[1].Text())
	}
}
