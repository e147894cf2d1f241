package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.MaxUploadMB != 64 {
		t.Errorf("expected MaxUploadMB=64, got %d", cfg.HTTP.MaxUploadMB)
	}
	if cfg.Embedding.Provider != ProviderLocal || cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected local provider with 384 dims, got %q/%d",
			cfg.Embedding.Provider, cfg.Embedding.Dimensions)
	}
	if cfg.Search.DefaultTopK != 5 || cfg.Search.PreviewChars != 500 || cfg.Search.MaxTopK != 100 {
		t.Errorf("unexpected search defaults %+v", cfg.Search)
	}
	if cfg.Sessions.MaxSessions != 1024 || cfg.Sessions.IdleTTLSec != 3600 {
		t.Errorf("unexpected session defaults %+v", cfg.Sessions)
	}
	if cfg.Cache.Driver != CacheNone || cfg.Cache.Enabled() {
		t.Errorf("cache must be disabled by default, got %q", cfg.Cache.Driver)
	}
}

func TestApplyDefaults_ProviderSpecific(t *testing.T) {
	fe := Config{Embedding: EmbeddingConfig{Provider: ProviderFastEmbed}}
	fe.ApplyDefaults()
	if fe.Embedding.Model != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Errorf("fastembed model = %q", fe.Embedding.Model)
	}
	if fe.Embedding.FastEmbed.CacheDir != "local_cache" || fe.Embedding.FastEmbed.MaxLength != 512 {
		t.Errorf("unexpected fastembed defaults %+v", fe.Embedding.FastEmbed)
	}

	oa := Config{Embedding: EmbeddingConfig{Provider: ProviderOpenAI}}
	oa.ApplyDefaults()
	if oa.Embedding.Model != "text-embedding-3-small" || oa.Embedding.Dimensions != 0 {
		t.Errorf("unexpected openai defaults %q/%d", oa.Embedding.Model, oa.Embedding.Dimensions)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 5, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search: SearchConfig{DefaultTopK: 3, PreviewChars: 200},
		Cache:  CacheConfig{Driver: CacheMemory, TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 5 || cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("timeouts overridden: %+v", cfg.HTTP)
	}
	if cfg.Search.DefaultTopK != 3 || cfg.Search.PreviewChars != 200 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.Cache.Driver != CacheMemory || cfg.Cache.TTLSec != 60 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"provider", func(c *Config) { c.Embedding.Provider = "magic" }, "embedding.provider"},
		{"openai without credentials", func(c *Config) { c.Embedding.Provider = ProviderOpenAI }, "embedding.openai"},
		{"openai with key", func(c *Config) {
			c.Embedding.Provider = ProviderOpenAI
			c.Embedding.OpenAI.APIKey = "sk-test"
		}, ""},
		{"max_top_k", func(c *Config) { c.Search.MaxTopK = 500 }, "search.max_top_k"},
		{"default above max", func(c *Config) { c.Search.DefaultTopK = 10; c.Search.MaxTopK = 5 }, "default_top_k"},
		{"cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
		{"redis without addrs", func(c *Config) { c.Cache.Driver = CacheRedis }, "cache.addrs"},
		{"valkey with addrs", func(c *Config) {
			c.Cache.Driver = CacheValkey
			c.Cache.Addrs = []string{"localhost:6379"}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_PORT", "9191")

	cfg, err := Parse([]byte(`
http:
  port: ${DOCSEARCH_TEST_PORT}
embedding:
  provider: ${DOCSEARCH_TEST_PROVIDER:-local}
  dimensions: 256
cache:
  driver: memory
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.HTTP.Port)
	}
	if cfg.Embedding.Provider != ProviderLocal || cfg.Embedding.Dimensions != 256 {
		t.Errorf("unexpected embedding config %+v", cfg.Embedding)
	}
	if !cfg.Cache.Enabled() {
		t.Error("memory cache should be enabled")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 0\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected a port from config/local.yaml")
	}
}
