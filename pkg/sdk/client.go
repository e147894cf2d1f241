package docsearch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	domsession "github.com/kailas-cloud/docsearch/internal/domain/session"
	"github.com/kailas-cloud/docsearch/internal/embedding"
	"github.com/kailas-cloud/docsearch/internal/extract"
	"github.com/kailas-cloud/docsearch/internal/repository/embcache"
	sessionrepo "github.com/kailas-cloud/docsearch/internal/repository/session"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
	defaultCacheEntries     = 10_000
)

// Внутренние интерфейсы для подмены в тестах.
type documentUseCase interface {
	Replace(ctx context.Context, sessionID string, uploads []documentuc.Upload) ([]domdoc.Document, error)
	Append(ctx context.Context, sessionID string, uploads []documentuc.Upload) ([]domdoc.Document, error)
	List(ctx context.Context, sessionID string) ([]domdoc.Document, error)
	Get(ctx context.Context, sessionID, id string) (domdoc.Document, error)
	Delete(ctx context.Context, sessionID, id string) error
	Clear(ctx context.Context, sessionID string) error
	Info(ctx context.Context, sessionID string) (domsession.Info, error)
}

type searchUseCase interface {
	Search(ctx context.Context, sessionID string, req *request.Request) (result.Set, error)
}

// Client is the docsearch SDK entry point.
type Client struct {
	store     db.Store
	model     *embedding.Model
	docSvc    documentUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	topK      int
	preview   int
	obs       *observer
}

// New creates a Client. Sessions live in process memory; the provided
// context is only used to wait for an external cache, if one is configured.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(store, cfg, obs), nil
}

// createStore returns nil when no cache is configured.
func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	var store db.Store
	switch cfg.cacheDriver {
	case "":
		return nil, nil
	case "memory":
		entries := cfg.cacheMaxEntries
		if entries <= 0 {
			entries = defaultCacheEntries
		}
		return memory.NewStore(entries, cfg.cacheTTL), nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("docsearch: create %s store: %w", cfg.cacheDriver, err)
		}
		store = s
	default:
		return nil, fmt.Errorf("docsearch: unknown cache driver %q", cfg.cacheDriver)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docsearch: cache not ready: %w", err)
	}
	return store, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := zap.NewNop()

	provider, modelName := "local", "hashing"
	load := func(context.Context) (domain.Embedder, error) {
		return embedding.NewHashing(cfg.hashingDimensions), nil
	}
	if cfg.embedder != nil {
		provider, modelName = "custom", "custom"
		load = func(context.Context) (domain.Embedder, error) {
			return &embedderAdapter{inner: cfg.embedder}, nil
		}
	}
	model := embedding.NewModel(provider, load, logger)

	var docEmb domain.Embedder = model
	if store != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		docEmb = embcache.New(model, store, provider+"/"+modelName, ttl, nil, logger)
	}
	var queryEmb domain.Embedder = model
	if cfg.instruction != "" {
		queryEmb = domain.NewInstructionEmbedder(model, cfg.instruction)
	}

	sessions := sessionrepo.New(cfg.maxSessions, cfg.sessionIdleTTL)
	docSvc := documentuc.New(sessions, extract.Default(logger), logger)
	if cfg.maxFileSize > 0 {
		docSvc = docSvc.WithMaxFileSize(cfg.maxFileSize)
	}

	// Pass nil interface (not typed nil pointer!) if no cache is configured.
	var pinger healthuc.CachePinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		model:     model,
		docSvc:    docSvc,
		searchSvc: searchuc.New(sessions, docEmb, queryEmb, logger),
		healthSvc: healthuc.New(model, model, pinger),
		topK:      cfg.topK,
		preview:   cfg.previewChars,
		obs:       obs,
	}
}

// Close releases the embedding model and the cache connection.
func (c *Client) Close() {
	if c.model != nil {
		_ = c.model.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Warm loads the embedding model ahead of the first query.
func (c *Client) Warm(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("warm", start, err) }()

	if err = c.model.Warm(ctx); err != nil {
		return fmt.Errorf("warm: %w", err)
	}
	return nil
}

// Documents returns the document service for a session.
// A blank session name selects the default session.
func (c *Client) Documents(session string) *DocumentService {
	return &DocumentService{session: session, svc: c.docSvc, obs: c.obs}
}

// Search returns the search service for a session.
func (c *Client) Search(session string) *SearchService {
	return &SearchService{
		session: session,
		svc:     c.searchSvc,
		topK:    c.topK,
		preview: c.preview,
		obs:     c.obs,
	}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed uses the provider's batch call when it has one.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// normalizeSession maps a blank name to the default session.
func normalizeSession(session string) (string, error) {
	id, err := domsession.NormalizeID(session)
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	return id, nil
}
