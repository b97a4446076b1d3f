package bubble

import (
	"testing"

	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/theme"
)

func sumLines(l *List) int {
	total := 0
	for _, e := range l.entries {
		if e != nil {
			total += len(e.Lines)
		}
	}
	return total
}

func sampleMessages() []msg.Message {
	return []msg.Message{
		msg.New(msg.AuthorUser, "Say hi"),
		msg.New(msg.AuthorAssistant, "Hello there, how can I help you today?"),
		msg.New(msg.AuthorAssistant, "Here is some code:\n```go\nfunc main() {}\n```"),
	}
}

func TestBubbleListLinesLenMatchesSum(t *testing.T) {
	l := NewList(theme.Default(), "You", "GPT")
	l.SetMessages(sampleMessages(), 80)
	if l.LinesLen() != sumLines(l) {
		t.Fatalf("LinesLen() = %d, want %d", l.LinesLen(), sumLines(l))
	}
}

func TestBubbleListIdempotentAtFixedWidth(t *testing.T) {
	l := NewList(theme.Default(), "You", "GPT")
	messages := sampleMessages()
	l.SetMessages(messages, 80)
	first := snapshot(l)
	l.SetMessages(messages, 80)
	second := snapshot(l)
	if first != second {
		t.Fatal("re-running set_messages at the same width changed rendered output")
	}
}

func TestBubbleListWidthChangeInvalidatesAll(t *testing.T) {
	l := NewList(theme.Default(), "You", "GPT")
	messages := sampleMessages()
	l.SetMessages(messages, 80)
	before := snapshot(l)
	l.SetMessages(messages, 40)
	after := snapshot(l)
	if before == after {
		t.Fatal("changing width should change rendered output")
	}
	if len(l.entries) != len(messages) {
		t.Fatalf("entry count changed: got %d, want %d", len(l.entries), len(messages))
	}
}

func TestBubbleListSequentialWidthMatchesFreshCache(t *testing.T) {
	messages := sampleMessages()

	l1 := NewList(theme.Default(), "You", "GPT")
	l1.SetMessages(messages, 80)
	l1.SetMessages(messages, 40)

	l2 := NewList(theme.Default(), "You", "GPT")
	l2.SetMessages(messages, 40)

	if snapshot(l1) != snapshot(l2) {
		t.Fatal("set_messages(w1); set_messages(w2) should match a fresh cache at w2")
	}
}

func TestBubbleListTailGrowthReusesCache(t *testing.T) {
	l := NewList(theme.Default(), "You", "GPT")
	messages := []msg.Message{msg.New(msg.AuthorUser, "hi")}
	l.SetMessages(messages, 80)

	messages[0].Text = "hi there"
	l.SetMessages(messages, 80)
	if l.entries[0].TextLen != len("hi there") {
		t.Fatalf("tail entry not refreshed: TextLen = %d", l.entries[0].TextLen)
	}
}

func snapshot(l *List) string {
	var out string
	for _, e := range l.entries {
		if e == nil {
			continue
		}
		for _, line := range e.Lines {
			out += line.Render() + "\n"
		}
	}
	return out
}
