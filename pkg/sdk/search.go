package docsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
)

// SearchService ranks the documents of a single session.
type SearchService struct {
	session string
	svc     searchUseCase
	topK    int
	preview int
	obs     *observer
}

// Query ranks the session's documents with the client defaults.
func (s *SearchService) Query(ctx context.Context, query string) (SearchResults, error) {
	return s.QueryN(ctx, query, s.topK, s.preview)
}

// QueryN ranks the session's documents, returning at most limit results with
// previews of previewChars characters. Zero selects the defaults (5 and 500).
//
// An empty session yields SearchNothingIndexed and a blank query SearchNoQuery.
// When the documents cannot be ranked the error matches ErrRankingUnavailable.
func (s *SearchService) QueryN(
	ctx context.Context, query string, limit, previewChars int,
) (res SearchResults, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err, "session", s.session, "status", res.Status) }()

	id, err := normalizeSession(s.session)
	if err != nil {
		return SearchResults{}, err
	}
	req, err := request.New(query, limit, previewChars)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}
	set, err := s.svc.Search(ctx, id, &req)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}
	res = fromResultSet(set)
	s.obs.observeSearch(res.Status)
	return res, nil
}

func fromResultSet(set result.Set) SearchResults {
	items := set.Items()
	out := make([]SearchResult, len(items))
	for i := range items {
		r := &items[i]
		out[i] = SearchResult{
			Rank:    r.Rank(),
			ID:      r.ID(),
			Score:   r.Score(),
			Preview: r.Preview(),
			Text:    r.Text(),
		}
	}
	return SearchResults{
		Status:     SearchStatus(set.Status()),
		Query:      set.Query(),
		Candidates: set.Candidates(),
		Items:      out,
	}
}
