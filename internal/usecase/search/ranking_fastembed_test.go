//go:build cgo

package search

import (
	"context"
	"os"
	"testing"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/embedding"
)

func newFastEmbedService(t *testing.T, docs ...domdoc.Document) *Service {
	t.Helper()
	if os.Getenv("DOCSEARCH_FASTEMBED_TEST") == "" {
		t.Skip("set DOCSEARCH_FASTEMBED_TEST=1 to run against the ONNX model")
	}
	fe, err := embedding.NewFastEmbed(embedding.FastEmbedConfig{CacheDir: os.TempDir()})
	if err != nil {
		t.Fatalf("NewFastEmbed() = %v", err)
	}
	t.Cleanup(func() { _ = fe.Close() })
	return New(&mockSource{docs: docs}, fe, fe, nil)
}

func TestSearch_MiniLM_MatchesByMeaning(t *testing.T) {
	svc := newFastEmbedService(t,
		mustDoc(t, "a.txt", "cat sat on mat"),
		mustDoc(t, "b.txt", "stock market rose today"),
	)

	// No word in common with either document.
	for _, query := range []string{"feline on a rug", "feline rug"} {
		set, err := svc.Search(context.Background(), "s1", newRequest(t, query, 0))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", query, err)
		}
		items := set.Items()
		if len(items) != 2 {
			t.Fatalf("%q: expected 2 results, got %d", query, len(items))
		}
		if items[0].ID() != "a.txt" || items[0].Score() <= items[1].Score() {
			t.Errorf("%q: want a.txt strictly first, got %s=%.4f %s=%.4f",
				query, items[0].ID(), items[0].Score(), items[1].ID(), items[1].Score())
		}
	}
}

func TestSearch_MiniLM_EmptyDocumentScoresZero(t *testing.T) {
	svc := newFastEmbedService(t, mustDoc(t, "empty.txt", ""))

	set, err := svc.Search(context.Background(), "s1", newRequest(t, "anything", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected one result, got %d", set.Len())
	}
	if got := set.Items()[0].Score(); got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestSearch_MiniLM_Deterministic(t *testing.T) {
	svc := newFastEmbedService(t,
		mustDoc(t, "1.txt", "quarterly revenue report"),
		mustDoc(t, "2.txt", "team offsite agenda"),
	)

	first, err := svc.Search(context.Background(), "s1", newRequest(t, "earnings", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := svc.Search(context.Background(), "s1", newRequest(t, "earnings", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.Items() {
		a, b := first.Items()[i], again.Items()[i]
		if a.ID() != b.ID() || a.Score() != b.Score() {
			t.Errorf("position %d: %s/%v vs %s/%v", i, a.ID(), a.Score(), b.ID(), b.Score())
		}
	}
}
