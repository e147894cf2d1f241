package result

// Status tells a ranked answer apart from the two short-circuit states.
type Status string

// Result set statuses.
const (
	StatusRanked         Status = "ranked"
	StatusNothingIndexed Status = "nothing_indexed"
	StatusNoQuery        Status = "no_query"
)

// Result is a single ranked document.
// Scores are comparable only within the Set they came from.
type Result struct {
	rank    int
	id      string
	text    string
	score   float64
	preview string
}

// New creates a ranked result. Rank is 1-based.
func New(rank int, id, text string, score float64, preview string) Result {
	return Result{rank: rank, id: id, text: text, score: score, preview: preview}
}

// Rank returns the 1-based position in the result set.
func (r *Result) Rank() int { return r.rank }

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Text returns the full document text.
func (r *Result) Text() string { return r.text }

// Score returns the cosine similarity to the query.
func (r *Result) Score() float64 { return r.score }

// Preview returns the bounded text prefix.
func (r *Result) Preview() string { return r.preview }

// Download returns the document text as downloadable bytes.
func (r *Result) Download() []byte { return []byte(r.text) }

// Set is the outcome of one search pass.
type Set struct {
	status     Status
	query      string
	items      []Result
	candidates int
}

// NewSet creates a ranked result set over candidates documents.
func NewSet(query string, items []Result, candidates int) Set {
	return Set{status: StatusRanked, query: query, items: items, candidates: candidates}
}

// NothingIndexed is the set returned when the session holds no documents.
func NothingIndexed(query string) Set {
	return Set{status: StatusNothingIndexed, query: query}
}

// NoQuery is the set returned for an empty or whitespace query.
func NoQuery(query string, candidates int) Set {
	return Set{status: StatusNoQuery, query: query, candidates: candidates}
}

// Status returns the set status.
func (s *Set) Status() Status { return s.status }

// Query returns the query the set answers.
func (s *Set) Query() string { return s.query }

// Items returns results ordered by descending score.
func (s *Set) Items() []Result { return s.items }

// Candidates returns how many documents were considered.
func (s *Set) Candidates() int { return s.candidates }

// Len returns the number of results.
func (s *Set) Len() int { return len(s.items) }
