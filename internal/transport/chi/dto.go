package chi

import (
	"net/url"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeDocumentNotFound   ErrorCode = "document_not_found"
	CodeUploadTooLarge     ErrorCode = "upload_too_large"
	CodeRankingUnavailable ErrorCode = "ranking_unavailable"
	CodeNotFound           ErrorCode = "not_found"
	CodeMethodNotAllowed   ErrorCode = "method_not_allowed"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DocumentResponse describes one document of the session set.
type DocumentResponse struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
	Size        int64  `json:"size"`
	Chars       int    `json:"chars"`
	DownloadURL string `json:"download_url"`
}

// DocumentListResponse lists the session set in upload order.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int                `json:"total"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query        string `json:"query"`
	Limit        *int   `json:"limit,omitempty"`
	PreviewChars *int   `json:"preview_chars,omitempty"`
}

// SearchResultItem is one ranked document.
type SearchResultItem struct {
	Rank        int     `json:"rank"`
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Preview     string  `json:"preview"`
	Text        string  `json:"text"`
	DownloadURL string  `json:"download_url"`
}

// SearchResponse is a ranked result set, or one of the short-circuit states.
type SearchResponse struct {
	Status     string             `json:"status"`
	Query      string             `json:"query"`
	Candidates int                `json:"candidates"`
	Total      int                `json:"total"`
	Items      []SearchResultItem `json:"items"`
}

// SessionResponse summarises the caller's session.
type SessionResponse struct {
	ID        string `json:"id"`
	Documents int    `json:"documents"`
	LastQuery string `json:"last_query"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func downloadURL(id string) string {
	return apiPrefix + "/documents/" + url.PathEscape(id) + "/download"
}

func documentToResponse(d *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID(),
		ContentType: d.ContentType(),
		Status:      string(d.Status()),
		Size:        d.Size(),
		Chars:       len([]rune(d.Text())),
		DownloadURL: downloadURL(d.ID()),
	}
}

func documentsToResponse(docs []domdoc.Document) DocumentListResponse {
	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = documentToResponse(&docs[i])
	}
	return DocumentListResponse{Items: items, Total: len(items)}
}

func searchResultToResponse(r *result.Result) SearchResultItem {
	return SearchResultItem{
		Rank:        r.Rank(),
		ID:          r.ID(),
		Score:       r.Score(),
		Preview:     r.Preview(),
		Text:        r.Text(),
		DownloadURL: downloadURL(r.ID()),
	}
}

func searchSetToResponse(set *result.Set) SearchResponse {
	items := make([]SearchResultItem, set.Len())
	for i, r := range set.Items() {
		items[i] = searchResultToResponse(&r)
	}
	return SearchResponse{
		Status:     string(set.Status()),
		Query:      set.Query(),
		Candidates: set.Candidates(),
		Total:      len(items),
		Items:      items,
	}
}

func sessionToResponse(id string, info domsession.Info) SessionResponse {
	return SessionResponse{ID: id, Documents: info.Documents, LastQuery: info.LastQuery}
}
