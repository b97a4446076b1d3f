// Package ui is the Event Loop / UI Driver: a bubbletea program that owns
// the terminal, wires the Input Source (internal/chat/input), AppState
// (internal/chat/state), and the BubbleList (internal/chat/bubble)
// together, and drives the backend worker and editor worker via
// internal/chat/event Actions. Grounded on the teacher's
// internal/tui/chat/chat.go Model/Update/View shape, trimmed to the one
// streaming backend + one textarea this client needs instead of the
// teacher's tool-calling engine, MCP manager, and inspector modes.
package ui

import (
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/llm"
)

// buildRequestMessages converts the transcript into the wire-level
// message list a Provider sends upstream. System-authored entries are
// local chrome (slash-command output, error surfacing) and are never sent
// to the backend.
func buildRequestMessages(messages []msg.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Author {
		case msg.AuthorUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Text: m.Text})
		case msg.AuthorAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Text: m.Text})
		}
	}
	return out
}
