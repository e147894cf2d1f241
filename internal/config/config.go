// Package config loads the service configuration from config/<ENV>.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cache drivers accepted by cache.driver.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
)

// Embedding providers accepted by embedding.provider.
const (
	ProviderLocal     = "local"
	ProviderFastEmbed = "fastembed"
	ProviderOpenAI    = "openai"
)

// maxTopKLimit caps search.max_top_k.
const maxTopKLimit = 100

// Config holds the docsearch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int `yaml:"max_upload_mb"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider            string          `yaml:"provider"` // local, fastembed, openai
	Model               string          `yaml:"model"`
	Dimensions          int             `yaml:"dimensions"`
	DocumentInstruction string          `yaml:"document_instruction"`
	QueryInstruction    string          `yaml:"query_instruction"`
	MaxBatchSize        int             `yaml:"max_batch_size"`
	Warmup              bool            `yaml:"warmup"` // load the model at startup instead of on first query
	OpenAI              OpenAIConfig    `yaml:"openai"`
	FastEmbed           FastEmbedConfig `yaml:"fastembed"`
}

// OpenAIConfig holds settings of an OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	User    string `yaml:"user"`
}

// FastEmbedConfig holds settings of the local ONNX provider.
type FastEmbedConfig struct {
	CacheDir  string `yaml:"cache_dir"`
	MaxLength int    `yaml:"max_length"`
	BatchSize int    `yaml:"batch_size"`
}

// SearchConfig holds ranking defaults.
type SearchConfig struct {
	DefaultTopK  int `yaml:"default_top_k"`
	MaxTopK      int `yaml:"max_top_k"`
	PreviewChars int `yaml:"preview_chars"`
}

// SessionsConfig bounds the in-process session store.
type SessionsConfig struct {
	MaxSessions int `yaml:"max_sessions"`
	IdleTTLSec  int `yaml:"idle_ttl_sec"`
}

// CacheConfig holds the optional embedding cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, memory, redis, valkey (default: none)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	MaxEntries       int      `yaml:"max_entries"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether an embedding cache is configured.
func (c CacheConfig) Enabled() bool { return c.Driver != "" && c.Driver != CacheNone }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, then
// applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 64
	}

	c.applyEmbeddingDefaults()

	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 5
	}
	if c.Search.MaxTopK <= 0 {
		c.Search.MaxTopK = maxTopKLimit
	}
	if c.Search.PreviewChars <= 0 {
		c.Search.PreviewChars = 500
	}

	if c.Sessions.MaxSessions <= 0 {
		c.Sessions.MaxSessions = 1024
	}
	if c.Sessions.IdleTTLSec <= 0 {
		c.Sessions.IdleTTLSec = 3600
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 10_000
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

func (c *Config) applyEmbeddingDefaults() {
	e := &c.Embedding
	if e.Provider == "" {
		e.Provider = ProviderLocal
	}
	if e.MaxBatchSize <= 0 {
		e.MaxBatchSize = 256
	}
	switch e.Provider {
	case ProviderLocal:
		if e.Model == "" {
			e.Model = "hashing"
		}
		if e.Dimensions <= 0 {
			e.Dimensions = 384
		}
	case ProviderFastEmbed:
		if e.Model == "" {
			e.Model = "sentence-transformers/all-MiniLM-L6-v2"
		}
		if e.FastEmbed.CacheDir == "" {
			e.FastEmbed.CacheDir = "local_cache"
		}
		if e.FastEmbed.MaxLength <= 0 {
			e.FastEmbed.MaxLength = 512
		}
		if e.FastEmbed.BatchSize <= 0 {
			e.FastEmbed.BatchSize = 64
		}
	case ProviderOpenAI:
		if e.Model == "" {
			e.Model = "text-embedding-3-small"
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Embedding.Provider {
	case ProviderLocal, ProviderFastEmbed:
	case ProviderOpenAI:
		if c.Embedding.OpenAI.APIKey == "" && c.Embedding.OpenAI.BaseURL == "" {
			return fmt.Errorf("embedding.openai.api_key or embedding.openai.base_url is required")
		}
	default:
		return fmt.Errorf("embedding.provider must be one of local, fastembed, openai, got %q",
			c.Embedding.Provider)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}

	if c.Search.MaxTopK > maxTopKLimit {
		return fmt.Errorf("search.max_top_k must be at most %d, got %d", maxTopKLimit, c.Search.MaxTopK)
	}
	if c.Search.DefaultTopK > c.Search.MaxTopK {
		return fmt.Errorf("search.default_top_k (%d) exceeds search.max_top_k (%d)",
			c.Search.DefaultTopK, c.Search.MaxTopK)
	}

	if !slices.Contains([]string{CacheNone, CacheMemory, CacheRedis, CacheValkey}, c.Cache.Driver) {
		return fmt.Errorf("cache.driver must be one of none, memory, redis, valkey, got %q", c.Cache.Driver)
	}
	if (c.Cache.Driver == CacheRedis || c.Cache.Driver == CacheValkey) && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
