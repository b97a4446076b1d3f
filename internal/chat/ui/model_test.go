package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/llm"
	"github.com/samsaffron/oatmeal/internal/theme"
)

// fakeStream replays a fixed sequence of Events, one per Recv call.
type fakeStream struct {
	events []llm.Event
	i      int
}

func (s *fakeStream) Recv() (llm.Event, error) {
	if s.i >= len(s.events) {
		return llm.Event{}, errors.New("fakeStream: exhausted")
	}
	ev := s.events[s.i]
	s.i++
	return ev, nil
}
func (s *fakeStream) Close() error { return nil }

type fakeProvider struct {
	events []llm.Event
}

func (p *fakeProvider) Name() string                          { return "fake" }
func (p *fakeProvider) HealthCheck(ctx context.Context) error { return nil }
func (p *fakeProvider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{{ID: "fake-model"}}, nil
}
func (p *fakeProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	return &fakeStream{events: p.events}, nil
}

func strPtr(s string) *string { return &s }

func newTestModel(provider llm.Provider) *Model {
	m := New(provider, "fake-model", "You", theme.Default(), nil, nil, nil)
	m.width, m.height = 80, 24
	m.state.SetRect(80, 24)
	return m
}

// drainStream follows only the listen cmd's backendEventMsg chain a
// backend request produces, ignoring the spinner's own re-scheduling cmd
// (which sleeps for real and would hang a test if chased recursively).
func drainStream(m *Model, cmd tea.Cmd) *Model {
	for cmd != nil {
		res := cmd()
		var next tea.Cmd
		switch v := res.(type) {
		case tea.BatchMsg:
			for _, c := range v {
				if be, ok := c().(backendEventMsg); ok {
					tm, nc := m.Update(be)
					m = tm.(*Model)
					next = nc
				}
			}
		case backendEventMsg:
			tm, nc := m.Update(v)
			m = tm.(*Model)
			next = nc
		}
		cmd = next
	}
	return m
}

func TestBasicChatScenario(t *testing.T) {
	provider := &fakeProvider{events: []llm.Event{
		{Type: llm.EventTextDelta, Text: "Hello "},
		{Type: llm.EventTextDelta, Text: "World"},
		{Type: llm.EventDone, Context: strPtr("ctx-1")},
	}}
	m := newTestModel(provider)
	m.textarea.SetValue("Say hi")

	_, cmd := m.submit()
	m = drainStream(m, cmd)

	if len(m.state.Messages) != 2 {
		t.Fatalf("want 2 messages, got %d: %+v", len(m.state.Messages), m.state.Messages)
	}
	if m.state.Messages[0].Author != msg.AuthorUser || m.state.Messages[0].Text != "Say hi" {
		t.Fatalf("unexpected user message: %+v", m.state.Messages[0])
	}
	if m.state.Messages[1].Author != msg.AuthorAssistant || m.state.Messages[1].Text != "Hello World" {
		t.Fatalf("unexpected assistant message: %+v", m.state.Messages[1])
	}
	if m.state.BackendContext != "ctx-1" {
		t.Fatalf("BackendContext = %q, want ctx-1", m.state.BackendContext)
	}
	if m.state.WaitingForBackend {
		t.Fatal("WaitingForBackend should be false once done")
	}
}

func TestAbortMidStreamDiscardsStragglers(t *testing.T) {
	provider := &fakeProvider{events: []llm.Event{
		{Type: llm.EventTextDelta, Text: "first chunk"},
	}}
	m := newTestModel(provider)
	m.textarea.SetValue("tell me a story")

	_, cmd := m.submit()
	// Advance exactly one delta so the stream is genuinely mid-flight.
	res := cmd()
	batch := res.(tea.BatchMsg)
	for _, c := range batch {
		if be, ok := c().(backendEventMsg); ok {
			tm, _ := m.Update(be)
			m = tm.(*Model)
		}
	}
	if !m.state.WaitingForBackend {
		t.Fatal("expected WaitingForBackend true after first delta, before abort")
	}

	staleID := m.streamID
	m.handleEvent(event.CtrlCEvent())
	if m.state.WaitingForBackend {
		t.Fatal("WaitingForBackend should be false immediately after Ctrl-C abort")
	}
	if m.streamID == staleID {
		t.Fatal("abort should invalidate the stream id so stragglers are dropped")
	}

	stale := backendEventMsg{streamID: staleID, ev: llm.Event{Type: llm.EventTextDelta, Text: "late"}}
	tm, _ := m.Update(stale)
	m = tm.(*Model)
	for _, mm := range m.state.Messages {
		if mm.Author == msg.AuthorAssistant && mm.Text != "first chunk" {
			t.Fatalf("straggler delta should not have been applied: %+v", mm)
		}
	}

	provider.events = []llm.Event{{Type: llm.EventDone, Context: strPtr("ctx-2")}}
	m.textarea.SetValue("try again")
	_, cmd2 := m.submit()
	m = drainStream(m, cmd2)
	if m.state.WaitingForBackend {
		t.Fatal("second request should complete")
	}
	if m.state.BackendContext != "ctx-2" {
		t.Fatalf("BackendContext = %q, want ctx-2", m.state.BackendContext)
	}
}
