package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// httpClientTimeout bounds a full chat request, matching the teacher's
// internal/llm/openai_compat.go.
const httpClientTimeout = 10 * time.Minute

var defaultHTTPClient = &http.Client{Timeout: httpClientTimeout}

// OpenAICompatProvider implements Provider for OpenAI's own API and any
// server exposing the same /v1/chat/completions SSE contract (LM Studio,
// vLLM, etc). Grounded on the teacher's internal/llm/openai_compat.go:Stream.
type OpenAICompatProvider struct {
	baseURL string
	apiKey  string
	model   string
	name    string
}

func NewOpenAICompatProvider(baseURL, apiKey, model, name string) *OpenAICompatProvider {
	baseURL = strings.TrimSuffix(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if name == "" {
		name = "OpenAI"
	}
	return &OpenAICompatProvider{baseURL: baseURL, apiKey: apiKey, model: model, name: name}
}

func (p *OpenAICompatProvider) Name() string {
	return fmt.Sprintf("%s (%s)", p.name, p.model)
}

type oaiChatRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	TopP        *float64     `json:"top_p,omitempty"`
	MaxTokens   *int         `json:"max_tokens,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiChoice struct {
	Delta        oaiMessage `json:"delta"`
	Message      oaiMessage `json:"message"`
	FinishReason *string    `json:"finish_reason"`
}

type oaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type oaiAPIError struct {
	Message string `json:"message"`
}

type oaiChatResponse struct {
	Choices []oaiChoice  `json:"choices"`
	Usage   *oaiUsage    `json:"usage"`
	Error   *oaiAPIError `json:"error"`
}

func buildCompatMessages(messages []Message) []oaiMessage {
	out := make([]oaiMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, oaiMessage{Role: string(msg.Role), Content: msg.Text})
	}
	return out
}

func (p *OpenAICompatProvider) chatURL() string {
	return p.baseURL + "/chat/completions"
}

func (p *OpenAICompatProvider) authHeader(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
}

func (p *OpenAICompatProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	p.authHeader(req)
	resp, err := defaultHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s health check: %w", p.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s health check: status %d", p.name, resp.StatusCode)
	}
	return nil
}

// ListModels uses the official openai-go SDK rather than the hand-rolled
// scanner the streaming path below needs: ListModels is a single
// non-streaming call with no bespoke framing to adapt, so there is no
// reason not to take the SDK's typed client and its built-in pagination.
// The SDK's WithBaseURL option makes this work against any server that
// speaks the /v1/models contract, not just api.openai.com.
func (p *OpenAICompatProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	opts := []option.RequestOption{option.WithBaseURL(p.baseURL + "/")}
	if p.apiKey != "" {
		opts = append(opts, option.WithAPIKey(p.apiKey))
	}
	client := openai.NewClient(opts...)

	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: list models: %w", p.name, err)
	}
	models := make([]ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, ModelInfo{ID: m.ID, Created: m.Created})
	}
	return models, nil
}

func (p *OpenAICompatProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	chatReq := oaiChatRequest{
		Model:    model,
		Messages: buildCompatMessages(req.Messages),
		Stream:   true,
	}
	if req.MaxOutputTokens > 0 {
		chatReq.MaxTokens = &req.MaxOutputTokens
	}
	if req.Temperature > 0 {
		t := float64(req.Temperature)
		chatReq.Temperature = &t
	}

	if req.Debug {
		fmt.Fprintln(os.Stderr, "=== DEBUG: OpenAI-compatible Stream Request ===")
		fmt.Fprintf(os.Stderr, "URL: %s\n", p.chatURL())
		fmt.Fprintf(os.Stderr, "Model: %s\n", model)
		fmt.Fprintf(os.Stderr, "Messages: %d\n", len(chatReq.Messages))
		fmt.Fprintln(os.Stderr, "================================================")
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.chatURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	p.authHeader(httpReq)

	resp, err := defaultHTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: status %d: %s", p.name, resp.StatusCode, string(data))
	}

	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		var lastUsage *Usage
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimPrefix(line, "data: ")
			if payload == "[DONE]" {
				break
			}

			var chatResp oaiChatResponse
			if err := json.Unmarshal([]byte(payload), &chatResp); err != nil {
				continue
			}
			if chatResp.Error != nil {
				return fmt.Errorf("%s: %s", p.name, chatResp.Error.Message)
			}
			if chatResp.Usage != nil {
				lastUsage = &Usage{
					InputTokens:  chatResp.Usage.PromptTokens,
					OutputTokens: chatResp.Usage.CompletionTokens,
				}
			}
			for _, choice := range chatResp.Choices {
				if choice.Delta.Content != "" {
					events <- Event{Type: EventTextDelta, Text: choice.Delta.Content}
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("%s: reading stream: %w", p.name, err)
		}
		if lastUsage != nil {
			events <- Event{Type: EventUsage, Use: lastUsage}
		}
		ctx := EncodeContext(req.Messages)
		events <- Event{Type: EventDone, Context: &ctx}
		return nil
	}), nil
}
