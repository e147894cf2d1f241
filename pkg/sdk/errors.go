package docsearch

import "github.com/kailas-cloud/docsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrInvalidDocument        = domain.ErrInvalidDocument
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrInvalidSession         = domain.ErrInvalidSession
	ErrUploadTooLarge         = domain.ErrUploadTooLarge
	ErrRankingUnavailable     = domain.ErrRankingUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrModelUnavailable       = domain.ErrModelUnavailable
)
