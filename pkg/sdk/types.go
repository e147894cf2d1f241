package docsearch

// DocumentStatus is the outcome of text extraction for an upload.
type DocumentStatus string

// Document statuses.
const (
	StatusExtracted   DocumentStatus = "extracted"
	StatusFailed      DocumentStatus = "failed"
	StatusUnsupported DocumentStatus = "unsupported"
)

// SearchStatus tells a ranked answer apart from the short-circuit states.
type SearchStatus string

// Search statuses.
const (
	SearchRanked         SearchStatus = "ranked"
	SearchNothingIndexed SearchStatus = "nothing_indexed"
	SearchNoQuery        SearchStatus = "no_query"
)

// Upload is one file handed to the client.
// ContentType may be empty; it is then detected from the name and content.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Document is an uploaded file reduced to text.
// For failed or unsupported files Text holds the explanation.
type Document struct {
	ID          string
	ContentType string
	Status      DocumentStatus
	Size        int64
	Text        string
}

// SearchResult is a single ranked document.
type SearchResult struct {
	Rank    int
	ID      string
	Score   float64
	Preview string
	Text    string
}

// SearchResults is the outcome of one query.
type SearchResults struct {
	Status     SearchStatus
	Query      string
	Candidates int
	Items      []SearchResult
}

// SessionInfo summarizes a session.
type SessionInfo struct {
	Documents int
	LastQuery string
}
