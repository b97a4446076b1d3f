package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompatProviderStreamsTextDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{
			`{"choices":[{"delta":{"content":"Hello "}}]}`,
			`{"choices":[{"delta":{"content":"World"}}],"usage":{"prompt_tokens":3,"completion_tokens":2}}`,
		}
		for _, c := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAICompatProvider(srv.URL, "", "gpt-4o-mini", "OpenAI")
	stream, err := p.Stream(context.Background(), Request{Messages: []Message{{Role: RoleUser, Text: "hi"}}})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	var text string
	var gotUsage, gotDone bool
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		switch ev.Type {
		case EventTextDelta:
			text += ev.Text
		case EventUsage:
			gotUsage = true
		case EventDone:
			gotDone = true
		}
	}
	if text != "Hello World" {
		t.Fatalf("text = %q, want %q", text, "Hello World")
	}
	if !gotUsage {
		t.Fatal("expected a usage event")
	}
	if !gotDone {
		t.Fatal("expected a done event")
	}
}

func TestOpenAICompatProviderListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"gpt-4o-mini","created":1700000000}]}`)
	}))
	defer srv.Close()

	p := NewOpenAICompatProvider(srv.URL, "", "gpt-4o-mini", "OpenAI")
	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 1 || models[0].ID != "gpt-4o-mini" {
		t.Fatalf("models = %+v", models)
	}
}

func TestOpenAICompatProviderBaseURLNormalization(t *testing.T) {
	p := NewOpenAICompatProvider("http://localhost:1234/v1/chat/completions/", "", "m", "LM Studio")
	if got, want := p.chatURL(), "http://localhost:1234/v1/chat/completions"; got != want {
		t.Fatalf("chatURL = %q, want %q", got, want)
	}
}
