package llm

import "context"

// Provider is the generative model capability consumed by the agents.
// Stateless per call: instructions are fixed at agent construction time and
// passed as the system message on every invocation.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Invoke sends the system instructions and input payload to the model
	// and returns its textual response
	Invoke(ctx context.Context, system, payload string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "",
		Timeout:   60,
		MaxTokens: 2048,
	}
}
