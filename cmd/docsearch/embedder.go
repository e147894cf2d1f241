package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/embedding"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/docsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/docsearch/internal/usecase/embedding"
)

// newModel wraps the configured provider in the lazily loaded process-wide model.
func newModel(cfg config.EmbeddingConfig, logger *zap.Logger) *embedding.Model {
	var load embedding.Loader
	switch cfg.Provider {
	case config.ProviderFastEmbed:
		load = func(context.Context) (domain.Embedder, error) {
			fe, err := embedding.NewFastEmbed(embedding.FastEmbedConfig{
				Model:     cfg.Model,
				CacheDir:  cfg.FastEmbed.CacheDir,
				MaxLength: cfg.FastEmbed.MaxLength,
				BatchSize: cfg.FastEmbed.BatchSize,
			})
			if err != nil {
				return nil, err
			}
			return fe, nil
		}
	case config.ProviderOpenAI:
		load = func(context.Context) (domain.Embedder, error) {
			return openaiEmb.NewEmbedder(&openaiEmb.Config{
				APIKey:     cfg.OpenAI.APIKey,
				BaseURL:    cfg.OpenAI.BaseURL,
				Model:      cfg.Model,
				Dimensions: cfg.Dimensions,
				User:       cfg.OpenAI.User,
				Provider:   cfg.Provider,
				Logger:     logger,
			}), nil
		}
	default:
		load = func(context.Context) (domain.Embedder, error) {
			return embedding.NewHashing(cfg.Dimensions), nil
		}
	}
	return embedding.NewModel(cfg.Provider, load, logger)
}

// buildEmbedder assembles the decorator chain: Model -> Cached -> Instrumented -> Instruction.
// A cache hit never touches the model, so cached texts do not force a load.
func buildEmbedder(
	model *embedding.Model,
	cfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) domain.Embedder {
	var embedder domain.Embedder = model
	if store != nil {
		embedder = embcache.New(
			model, store, cfg.Provider+"/"+cfg.Model,
			time.Duration(cacheCfg.TTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger).
		WithMaxBatchSize(cfg.MaxBatchSize)

	// Instruction prefix is outermost, so the cache key includes it.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
