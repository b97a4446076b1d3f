package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using google.golang.org/genai's native
// streaming iterator, grounded on the teacher's internal/llm/gemini.go.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: no API key configured (set provider token or GEMINI_API_KEY)")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}, nil
}

func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("Gemini (%s)", p.model)
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.apiKey})
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) error {
	client, err := p.newClient(ctx)
	if err != nil {
		return err
	}
	_, err = client.Models.GenerateContent(ctx, p.model, []*genai.Content{
		genai.NewContentFromText("ping", genai.RoleUser),
	}, nil)
	return err
}

// ListModels returns the set of Gemini models this adapter is known to
// work with. The genai SDK's model-listing surface is not exercised
// elsewhere in this module, so rather than guess at an unverified call we
// report the fixed set the streaming path above is grounded on.
func (p *GeminiProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return []ModelInfo{
		{ID: "gemini-2.5-flash"},
		{ID: "gemini-2.5-pro"},
		{ID: "gemini-3-flash-preview"},
		{ID: "gemini-3-pro-preview"},
	}, nil
}

func (p *GeminiProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		client, err := p.newClient(ctx)
		if err != nil {
			return fmt.Errorf("gemini: create client: %w", err)
		}

		system, contents := buildGeminiContents(req.Messages)
		if len(contents) == 0 {
			return fmt.Errorf("gemini: no user content provided")
		}

		config := &genai.GenerateContentConfig{}
		if system != "" {
			config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
		}

		model := req.Model
		if model == "" {
			model = p.model
		}

		if req.Debug {
			fmt.Fprintln(os.Stderr, "=== DEBUG: Gemini Stream Request ===")
			fmt.Fprintf(os.Stderr, "Model: %s\n", model)
			fmt.Fprintf(os.Stderr, "Contents: %d\n", len(contents))
			fmt.Fprintln(os.Stderr, "=====================================")
		}

		var lastUsage *genai.GenerateContentResponseUsageMetadata
		for resp, err := range client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				return fmt.Errorf("gemini streaming error: %w", err)
			}
			if text := resp.Text(); text != "" {
				events <- Event{Type: EventTextDelta, Text: text}
			}
			if resp.UsageMetadata != nil {
				lastUsage = resp.UsageMetadata
			}
		}
		if lastUsage != nil {
			events <- Event{Type: EventUsage, Use: &Usage{
				InputTokens:  int(lastUsage.PromptTokenCount),
				OutputTokens: int(lastUsage.CandidatesTokenCount),
			}}
		}
		ctxStr := EncodeContext(req.Messages)
		events <- Event{Type: EventDone, Context: &ctxStr}
		return nil
	}), nil
}

func buildGeminiContents(messages []Message) (string, []*genai.Content) {
	var system string
	var out []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Text
		case RoleUser:
			out = append(out, genai.NewContentFromText(msg.Text, genai.RoleUser))
		case RoleAssistant:
			out = append(out, genai.NewContentFromText(msg.Text, genai.RoleModel))
		}
	}
	return system, out
}
