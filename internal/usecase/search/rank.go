package search

import (
	"sort"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
)

// Candidate is a document paired with its vector for one ranking pass.
type Candidate struct {
	Document domdoc.Document
	Vector   []float32
}

// Rank scores every candidate against the query vector, orders them by
// descending score and keeps the first limit. Candidates with equal scores
// keep their input order. limit <= 0 keeps every candidate.
func Rank(query []float32, candidates []Candidate, limit, previewChars int) []result.Result {
	type scored struct {
		idx   int
		score float64
	}

	scores := make([]scored, len(candidates))
	for i := range candidates {
		scores[i] = scored{idx: i, score: cosine(query, candidates[i].Vector)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}

	results := make([]result.Result, len(scores))
	for pos, s := range scores {
		doc := candidates[s.idx].Document
		results[pos] = result.New(pos+1, doc.ID(), doc.Text(), s.score, preview(doc.Text(), previewChars))
	}
	return results
}
