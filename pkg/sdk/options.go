package docsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	embedder          Embedder
	hashingDimensions int
	instruction       string

	topK         int
	previewChars int
	maxFileSize  int64

	maxSessions    int
	sessionIdleTTL time.Duration

	cacheDriver     string // "", "memory", "redis" or "valkey"
	cacheAddrs      []string
	cachePassword   string
	cacheTTL        time.Duration
	cacheMaxEntries int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEmbedder sets the text embedding provider.
// Without it the client uses the built-in hashing embedder.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithHashingDimensions sets the vector size of the built-in hashing embedder.
// Default: 384. Ignored when WithEmbedder is used.
func WithHashingDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hashingDimensions = dim
	})
}

// WithQueryInstruction prefixes every query before embedding, for models
// trained with asymmetric instructions.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.instruction = instruction
	})
}

// WithTopK sets the default number of results per query. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithPreviewChars sets the default preview length in characters. Default: 500.
func WithPreviewChars(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.previewChars = n
	})
}

// WithMaxFileSize caps the size of a single uploaded file. Default: 32 MiB.
func WithMaxFileSize(n int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFileSize = n
	})
}

// WithSessionLimits bounds the number of live sessions and how long an idle
// session is kept. Defaults: 1024 sessions, 1 hour.
func WithSessionLimits(maxSessions int, idleTTL time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSessions = maxSessions
		c.sessionIdleTTL = idleTTL
	})
}

// WithMemoryCache caches document embeddings in process memory.
func WithMemoryCache(maxEntries int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "memory"
		c.cacheMaxEntries = maxEntries
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches document embeddings in a Redis instance.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithValkeyCache caches document embeddings in a Valkey instance.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
