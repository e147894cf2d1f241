package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters.
	MaxQueryLength  = 4096
	DefaultTopK     = domain.DefaultTopK
	MaxTopK         = 100
	DefaultPreview  = domain.DefaultPreviewChars
	MaxPreviewChars = 100_000
)

// Request is a validated search query.
type Request struct {
	query        string
	limit        int
	previewChars int
}

// New validates and normalizes search parameters.
// An empty or whitespace query is valid: the search short-circuits on it.
// Defaults: limit=5, previewChars=500. Both are clamped to their maximum.
func New(query string, limit, previewChars int) (Request, error) {
	if !utf8.ValidString(query) {
		return Request{}, fmt.Errorf("%w: query must be valid UTF-8", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidQuery)
	}
	if previewChars < 0 {
		return Request{}, fmt.Errorf("%w: preview_chars must not be negative", domain.ErrInvalidQuery)
	}
	if limit == 0 {
		limit = DefaultTopK
	}
	if limit > MaxTopK {
		limit = MaxTopK
	}
	if previewChars == 0 {
		previewChars = DefaultPreview
	}
	if previewChars > MaxPreviewChars {
		previewChars = MaxPreviewChars
	}

	return Request{query: query, limit: limit, previewChars: previewChars}, nil
}

// Query returns the query text as submitted.
func (r *Request) Query() string { return r.query }

// IsBlank reports whether the query has no searchable content.
func (r *Request) IsBlank() bool { return strings.TrimSpace(r.query) == "" }

// Limit returns the maximum number of results (top-K).
func (r *Request) Limit() int { return r.limit }

// PreviewChars returns the preview bound in characters.
func (r *Request) PreviewChars() int { return r.previewChars }
