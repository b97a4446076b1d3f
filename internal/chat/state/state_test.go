package state

import (
	"testing"

	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/llm"
	"github.com/samsaffron/oatmeal/internal/theme"
)

func newState() *State {
	s := New(nil, "gpt-test", "You", theme.Default())
	s.SetRect(80, 24)
	return s
}

func strPtr(s string) *string { return &s }

func TestHandleBackendResponseGrowsTailNotTwoMessages(t *testing.T) {
	s := newState()
	s.AddMessage(msg.New(msg.AuthorUser, "Say hi"))
	s.WaitingForBackend = true

	s.HandleBackendResponse(llm.Event{Type: llm.EventTextDelta, Text: "Hello "})
	s.HandleBackendResponse(llm.Event{Type: llm.EventTextDelta, Text: "World"})
	s.HandleBackendResponse(llm.Event{Type: llm.EventDone, Context: strPtr("ctx-1")})

	if len(s.Messages) != 2 {
		t.Fatalf("want 2 messages (user + assistant), got %d", len(s.Messages))
	}
	if got := s.Messages[1].Text; got != "Hello World" {
		t.Fatalf("tail text = %q, want %q", got, "Hello World")
	}
	if s.WaitingForBackend {
		t.Fatal("WaitingForBackend should be false after done")
	}
	if s.BackendContext != "ctx-1" {
		t.Fatalf("BackendContext = %q, want ctx-1", s.BackendContext)
	}
}

func TestHandleBackendResponsePartialTailSurvivesAbort(t *testing.T) {
	s := newState()
	s.AddMessage(msg.New(msg.AuthorUser, "Say hi"))
	s.WaitingForBackend = true
	s.HandleBackendResponse(llm.Event{Type: llm.EventTextDelta, Text: "Hel"})

	// Simulate abort: the loop clears WaitingForBackend itself.
	s.WaitingForBackend = false

	before := s.Messages[len(s.Messages)-1].Text
	// A straggler delta must not be applied once the loop has moved past
	// the in-flight request; callers are expected to check
	// WaitingForBackend before routing a response here, mirrored by this
	// guard in the event loop rather than in State itself. This test
	// documents the contract: the loop never calls HandleBackendResponse
	// after it observed an abort for the same request.
	if before != "Hel" {
		t.Fatalf("tail text = %q, want %q", before, "Hel")
	}
}

func TestAddMessageTracksBottomScroll(t *testing.T) {
	s := newState()
	for i := 0; i < 40; i++ {
		s.AddMessage(msg.New(msg.AuthorAssistant, "line"))
	}
	if !s.isAtBottom() {
		t.Fatal("expected scroll to track bottom as history grows")
	}

	s.ScrollUp()
	if s.isAtBottom() {
		t.Fatal("expected scrolling up to leave the bottom")
	}
	before := s.Scroll.Position
	s.AddMessage(msg.New(msg.AuthorAssistant, "another"))
	if s.Scroll.Position != before {
		t.Fatal("scroll position should not auto-follow once the user scrolled away")
	}
}

func TestHandleBackendResponseDoesNotAutoFollowScroll(t *testing.T) {
	s := newState()
	s.AddMessage(msg.New(msg.AuthorUser, "tell me a long story"))
	for i := 0; i < 40; i++ {
		s.AddMessage(msg.New(msg.AuthorAssistant, "padding line"))
	}
	s.ScrollUp()
	before := s.Scroll.Position

	s.WaitingForBackend = true
	s.HandleBackendResponse(llm.Event{Type: llm.EventTextDelta, Text: "a growing reply"})

	if s.Scroll.Position != before {
		t.Fatalf("scroll position changed during streaming: before=%d after=%d", before, s.Scroll.Position)
	}
}

func TestScrollClampedToRange(t *testing.T) {
	s := newState()
	s.ScrollUp()
	if s.Scroll.Position != 0 {
		t.Fatalf("scroll should clamp at 0, got %d", s.Scroll.Position)
	}
	for i := 0; i < 5; i++ {
		s.AddMessage(msg.New(msg.AuthorAssistant, "hi"))
	}
	s.ScrollPageDown()
	if s.Scroll.Position > s.maxScroll() {
		t.Fatalf("scroll position %d exceeds max %d", s.Scroll.Position, s.maxScroll())
	}
}

func TestLastUserMessageSkipsSlashCommands(t *testing.T) {
	s := newState()
	s.AddMessage(msg.New(msg.AuthorUser, "first question"))
	s.AddMessage(msg.New(msg.AuthorAssistant, "an answer"))
	s.AddMessage(msg.New(msg.AuthorUser, "/help"))

	m, ok := s.LastUserMessage()
	if !ok {
		t.Fatal("expected a last user message")
	}
	if m.Text != "first question" {
		t.Fatalf("LastUserMessage = %q, want %q", m.Text, "first question")
	}
}
