package llm

import "fmt"

// BackendConfig is the subset of a provider's config the factory needs.
// URL and Token come from internal/config.BackendSettings; Name and Model
// are the selected backend and model.
type BackendConfig struct {
	Name  string
	URL   string
	Token string
	Model string
}

// NewProvider builds a Provider for the named backend, grounded on the
// teacher's internal/llm/provider.go:NewProvider factory-switch pattern:
// tagged-variant dispatch via a factory keyed by a name string.
func NewProvider(cfg BackendConfig) (Provider, error) {
	switch cfg.Name {
	case "anthropic":
		return NewAnthropicProvider(cfg.Token, cfg.Model)
	case "gemini":
		return NewGeminiProvider(cfg.Token, cfg.Model)
	case "ollama":
		return NewOllamaProvider(cfg.URL, cfg.Model), nil
	case "openai", "openai-compat", "":
		baseURL := cfg.URL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		name := "OpenAI"
		if cfg.Name == "openai-compat" {
			name = "OpenAI-compatible"
		}
		return NewOpenAICompatProvider(baseURL, cfg.Token, cfg.Model, name), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: openai, anthropic, gemini, ollama, openai-compat)", cfg.Name)
	}
}
