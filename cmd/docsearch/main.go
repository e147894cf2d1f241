package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	"github.com/kailas-cloud/docsearch/internal/extract"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	sessionrepo "github.com/kailas-cloud/docsearch/internal/repository/session"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	"github.com/kailas-cloud/docsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsearch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Metrics are registered explicitly (no init()).
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	ctx := context.Background()

	store, err := openCacheStore(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to open embedding cache", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		logger.Info("Embedding cache ready", zap.String("driver", cfg.Cache.Driver))
	}

	// One model per process, shared by the document and query chains.
	model := newModel(cfg.Embedding, logger)
	defer func() {
		if err := model.Close(); err != nil {
			logger.Warn("Failed to release embedding model", zap.Error(err))
		}
	}()

	if cfg.Embedding.Warmup {
		if err := model.Warm(ctx); err != nil {
			logger.Error("Embedding model warmup failed, search will report ranking unavailable", zap.Error(err))
		}
	}

	docEmbedder := buildEmbedder(model, cfg.Embedding, cfg.Embedding.DocumentInstruction, store, cfg.Cache, logger)
	queryEmbedder := buildEmbedder(model, cfg.Embedding, cfg.Embedding.QueryInstruction, store, cfg.Cache, logger)

	sessions := sessionrepo.New(cfg.Sessions.MaxSessions, time.Duration(cfg.Sessions.IdleTTLSec)*time.Second)

	docSvc := documentuc.New(sessions, extract.Default(logger), logger).
		WithMaxFileSize(int64(cfg.HTTP.MaxUploadMB) << 20)
	searchSvc := searchuc.New(sessions, docEmbedder, queryEmbedder, logger)

	// Pass a nil interface, not a typed nil pointer, when no cache is configured.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(model, model, cachePinger)

	server := chiTransport.NewServer(docSvc, searchSvc, healthSvc, chiTransport.Options{
		MaxUploadBytes:      int64(cfg.HTTP.MaxUploadMB) << 20,
		DefaultTopK:         cfg.Search.DefaultTopK,
		MaxTopK:             cfg.Search.MaxTopK,
		DefaultPreviewChars: cfg.Search.PreviewChars,
	}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openCacheStore returns nil when the embedding cache is disabled.
func openCacheStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case "", config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		store = memory.NewStore(cfg.MaxEntries, time.Duration(cfg.TTLSec)*time.Second)
	case config.CacheRedis, config.CacheValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	return store, nil
}
