package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document in the session set.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidDocument signals an upload that cannot become a document.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidSession signals a malformed session identifier.
	ErrInvalidSession = errors.New("invalid session")
	// ErrUploadTooLarge signals an upload above the configured size limit.
	ErrUploadTooLarge = errors.New("upload too large")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrRankingUnavailable signals that documents cannot be ranked right now.
	// Distinct from an empty corpus, which is not an error.
	ErrRankingUnavailable = errors.New("ranking unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrModelUnavailable signals that the embedding model failed to load.
	ErrModelUnavailable = errors.New("embedding model unavailable")
	// ErrUnsupportedType signals a content type without an extractor.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ExtractionError carries the file kind that failed to parse.
type ExtractionError struct {
	Kind string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error reading %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError wraps a parser error for the given file kind.
func NewExtractionError(kind string, err error) error {
	return &ExtractionError{Kind: kind, Err: err}
}
