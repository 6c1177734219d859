package model

import "time"

// Config holds the complete claimsight configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Parse       ParseConfig       `yaml:"parse" mapstructure:"parse"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge" mapstructure:"knowledge"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Quality     QualityConfig     `yaml:"quality" mapstructure:"quality"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ParseConfig controls the document parsing backend
type ParseConfig struct {
	// Backend: "remote" (markdown parse service) or "local" (built-in PDF/HTML readers)
	Backend      string        `yaml:"backend" mapstructure:"backend"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string        `yaml:"-" mapstructure:"-"` // From LLAMAPARSE_API_KEY, never persisted
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// KnowledgeConfig controls the knowledge store backend
type KnowledgeConfig struct {
	// Backend: "memory" (per-run isolated store) or "qdrant"
	Backend    string `yaml:"backend" mapstructure:"backend"`
	QdrantAddr string `yaml:"qdrant_addr" mapstructure:"qdrant_addr"`
	Collection string `yaml:"collection" mapstructure:"collection"`
	TopK       int    `yaml:"top_k" mapstructure:"top_k"`
	// Embedder: "openai" or "lexical" (deterministic, offline)
	Embedder   string `yaml:"embedder" mapstructure:"embedder"`
	EmbedModel string `yaml:"embed_model" mapstructure:"embed_model"`
}

// LLMConfig holds generative model provider settings
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // From env, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// QualityConfig controls the quality gate
type QualityConfig struct {
	Threshold  int `yaml:"threshold" mapstructure:"threshold"`     // Accept at score >= threshold
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"` // Bounded data-quality retries
}

// CacheConfig controls transcript and embedding caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls intra-run parallelism
type ConcurrencyConfig struct {
	TranscriptWorkers int `yaml:"transcript_workers" mapstructure:"transcript_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Claimsight/0.1 (+https://github.com/claimsight/claimsight)",
			MaxBodyBytes: 10_000_000,
		},
		Parse: ParseConfig{
			Backend:      "local",
			BaseURL:      "https://api.cloud.llamaindex.ai",
			PollInterval: 2 * time.Second,
			Timeout:      5 * time.Minute,
		},
		Knowledge: KnowledgeConfig{
			Backend:    "memory",
			QdrantAddr: "localhost:6334",
			Collection: "claimsight",
			TopK:       5,
			Embedder:   "lexical",
			EmbedModel: "text-embedding-3-small",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 2048,
		},
		Quality: QualityConfig{
			Threshold:  50,
			MaxRetries: 1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			TranscriptWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
