package llm

import "testing"

func TestNewProviderUnknownBackend(t *testing.T) {
	_, err := NewProvider(BackendConfig{Name: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestNewProviderOllama(t *testing.T) {
	p, err := NewProvider(BackendConfig{Name: "ollama", URL: "http://localhost:11434", Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "Ollama (llama3.2)" {
		t.Fatalf("Name() = %q", p.Name())
	}
}

func TestNewProviderOpenAIDefaultsToOfficialAPI(t *testing.T) {
	p, err := NewProvider(BackendConfig{Name: "openai", Token: "sk-test", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	compat, ok := p.(*OpenAICompatProvider)
	if !ok {
		t.Fatalf("expected *OpenAICompatProvider, got %T", p)
	}
	if compat.baseURL != "https://api.openai.com/v1" {
		t.Fatalf("baseURL = %q", compat.baseURL)
	}
}

func TestNewProviderAnthropicRequiresCredential(t *testing.T) {
	_, err := NewProvider(BackendConfig{Name: "anthropic"})
	if err == nil {
		t.Fatal("expected an error without an API key or ANTHROPIC_API_KEY")
	}
}
