// Package msg holds the Author and Message value types shared by the event
// model, the bubble renderer, and AppState, kept dependency-free so none of
// those packages need to import each other just to talk about a message.
package msg

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author tags who wrote a Message.
type Author int

const (
	AuthorUser Author = iota
	AuthorAssistant
	AuthorSystem
)

// Label resolves the display name for an author: the user's and model's
// names come from configuration, the assistant's is always "Oatmeal".
func (a Author) Label(username, modelName string) string {
	switch a {
	case AuthorUser:
		if username == "" {
			return "You"
		}
		return username
	case AuthorAssistant:
		return "Oatmeal"
	case AuthorSystem:
		if modelName == "" {
			return "System"
		}
		return modelName
	default:
		return "?"
	}
}

// Message is one transcript entry. Only the tail message of a conversation
// may have its Text grown in place; every other message is immutable once
// the next one is appended.
type Message struct {
	ID        string
	Author    Author
	Text      string
	CreatedAt time.Time
}

// New builds a Message with a fresh random ID and CreatedAt set to now.
func New(author Author, text string) Message {
	return Message{ID: uuid.NewString(), Author: author, Text: text, CreatedAt: time.Now()}
}

// CodeBlock is a fenced code region inside a Message's Text, numbered
// globally (1-based) across the whole conversation.
type CodeBlock struct {
	Index    int
	Language string
	Code     string
}

// CodeBlocks parses m.Text for fenced ``` regions, assigning each a 1-based
// index starting at startIndex+1 so callers can keep a running counter
// across the full message history.
func (m Message) CodeBlocks(startIndex int) []CodeBlock {
	var blocks []CodeBlock
	lines := strings.Split(m.Text, "\n")
	index := startIndex
	inBlock := false
	var lang string
	var body []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && strings.HasPrefix(trimmed, "```") {
			inBlock = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			body = nil
			continue
		}
		if inBlock && strings.HasPrefix(trimmed, "```") {
			inBlock = false
			index++
			blocks = append(blocks, CodeBlock{Index: index, Language: lang, Code: strings.Join(body, "\n")})
			continue
		}
		if inBlock {
			body = append(body, line)
		}
	}
	return blocks
}

// AllCodeBlocks numbers code blocks across an entire transcript in message
// order, the authoritative numbering both the bubble renderer's `[n]`
// prefixes and the slash engine's `/append`, `/replace`, `/copy` commands
// must agree on.
func AllCodeBlocks(messages []Message) []CodeBlock {
	var all []CodeBlock
	counter := 0
	for _, m := range messages {
		blocks := m.CodeBlocks(counter)
		all = append(all, blocks...)
		counter += len(blocks)
	}
	return all
}
