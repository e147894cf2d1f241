package embedding

// Provider names accepted by embedding.provider.
const (
	ProviderLocal     = "local"
	ProviderFastEmbed = "fastembed"
	ProviderOpenAI    = "openai"
)

// DefaultFastEmbedModel is the sentence-transformers model used by default.
const DefaultFastEmbedModel = "sentence-transformers/all-MiniLM-L6-v2"

// FastEmbedConfig holds settings of the local ONNX provider.
type FastEmbedConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
	BatchSize int
}

func (c *FastEmbedConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultFastEmbedModel
	}
	if c.CacheDir == "" {
		c.CacheDir = "local_cache"
	}
	if c.MaxLength <= 0 {
		c.MaxLength = 512
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
}
