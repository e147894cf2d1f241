package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

// Service ranks a session's documents against a query.
// Every call re-embeds the full document set: nothing is indexed between queries.
type Service struct {
	docs       DocumentSource
	docEmbed   Embedder
	queryEmbed Embedder
	logger     *zap.Logger
}

// New creates a search service. Documents and queries may use different
// embedder chains (e.g. different instructions) over the same model.
func New(docs DocumentSource, docEmbed, queryEmbed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{docs: docs, docEmbed: docEmbed, queryEmbed: queryEmbed, logger: logger}
}

// Search runs one ranking pass over the session's current documents.
//
// An empty session gives a nothing_indexed set and a blank query a no_query
// set; neither calls the embedder. Any embedding failure is returned as
// domain.ErrRankingUnavailable, never as an empty ranked set.
func (s *Service) Search(ctx context.Context, sessionID string, req *request.Request) (result.Set, error) {
	start := time.Now()
	ctx = logpkg.WithFields(ctx, zap.String("session", sessionID))

	docs, err := s.docs.Snapshot(ctx, sessionID)
	if err != nil {
		return result.Set{}, fmt.Errorf("snapshot documents: %w", err)
	}
	if err := s.docs.RecordQuery(ctx, sessionID, req.Query()); err != nil {
		s.log(ctx).Warn("Failed to record last query", zap.Error(err))
	}

	if len(docs) == 0 {
		metrics.SearchTotal.WithLabelValues(string(result.StatusNothingIndexed)).Inc()
		return result.NothingIndexed(req.Query()), nil
	}
	if req.IsBlank() {
		metrics.SearchTotal.WithLabelValues(string(result.StatusNoQuery)).Inc()
		return result.NoQuery(req.Query(), len(docs)), nil
	}

	candidates, queryVec, err := s.embed(ctx, docs, req.Query())
	if err != nil {
		metrics.SearchTotal.WithLabelValues("unavailable").Inc()
		return result.Set{}, err
	}

	items := Rank(queryVec, candidates, req.Limit(), req.PreviewChars())

	duration := time.Since(start)
	metrics.SearchTotal.WithLabelValues(string(result.StatusRanked)).Inc()
	metrics.SearchDuration.Observe(duration.Seconds())
	metrics.DocumentsRanked.Observe(float64(len(candidates)))

	s.log(ctx).Debug("Search completed",
		zap.Int("documents", len(candidates)),
		zap.Int("results", len(items)),
		zap.Duration("duration", duration),
	)

	return result.NewSet(req.Query(), items, len(candidates)), nil
}

// embed makes exactly two embedding calls: one batch for the documents,
// one for the query.
func (s *Service) embed(
	ctx context.Context, docs []domdoc.Document, query string,
) ([]Candidate, []float32, error) {
	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Text()
	}

	docRes, err := domain.EmbedBatch(ctx, s.docEmbed, texts)
	if err != nil {
		return nil, nil, s.unavailable(ctx, "embed documents", err)
	}

	queryRes, err := domain.EmbedBatch(ctx, s.queryEmbed, []string{query})
	if err != nil {
		return nil, nil, s.unavailable(ctx, "embed query", err)
	}

	domain.UsageFromContext(ctx).Record(len(texts)+1, docRes.TotalTokens+queryRes.TotalTokens)

	queryVec := queryRes.Embeddings[0]
	candidates := make([]Candidate, len(docs))
	for i := range docs {
		vec := docRes.Embeddings[i]
		if len(vec) != len(queryVec) {
			err := fmt.Errorf("%w: document %q has %d dimensions, query has %d",
				domain.ErrVectorDimMismatch, docs[i].ID(), len(vec), len(queryVec))
			return nil, nil, s.unavailable(ctx, "compare vectors", err)
		}
		candidates[i] = Candidate{Document: docs[i], Vector: vec}
	}

	return candidates, queryVec, nil
}

func (s *Service) unavailable(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	s.log(ctx).Error("Ranking unavailable", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", domain.ErrRankingUnavailable, op, err)
}

// log prefers the request logger, which carries the request and session ids.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return logpkg.FromContextOr(ctx, s.logger)
}
