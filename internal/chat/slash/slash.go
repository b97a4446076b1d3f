// Package slash parses and executes the `/`-prefixed commands a submitted
// input line may carry, grounded on the dispatch-pattern structure of the
// teacher's internal/tui/chat/commands.go (exact-match lookup, then a
// small switch per command) but trimmed drastically: this client
// recognizes seven commands, not eighteen, and none of them need the
// teacher's fuzzy-finder or MCP/skills machinery.
package slash

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/clipboard"
	"github.com/samsaffron/oatmeal/internal/llm"
)

// State is the slice of AppState the engine needs. state.AppState
// implements it; defining it here (rather than importing the state
// package) keeps slash free of a state->slash->state import cycle.
type State interface {
	Provider() llm.Provider
	ModelName() string
	SetModelName(name string)
	AppendSystemMessage(text string)
	AllCodeBlocks() []msg.CodeBlock
	EditorContext() string
}

// Result is what the event loop does after Execute returns.
type Result struct {
	ShouldBreak   bool
	ShouldConsume bool
	Action        *event.Action
}

// forward is the zero Result: "not a command, forward to the backend."
var forward = Result{}

// IsCommand reports whether input's first non-whitespace rune is '/'.
func IsCommand(input string) bool {
	trimmed := strings.TrimSpace(input)
	return strings.HasPrefix(trimmed, "/")
}

// Execute parses and runs a slash command. Callers must have already
// confirmed IsCommand(input).
func Execute(st State, input string) Result {
	trimmed := strings.TrimSpace(input)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return forward
	}
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/quit":
		return Result{ShouldBreak: true}

	case "/help":
		st.AppendSystemMessage(helpText)
		return Result{ShouldConsume: true}

	case "/modellist":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		models, err := st.Provider().ListModels(ctx)
		if err != nil {
			st.AppendSystemMessage(fmt.Sprintf("error listing models: %v", err))
			return Result{ShouldConsume: true}
		}
		var b strings.Builder
		b.WriteString("Available models:\n")
		for _, m := range models {
			fmt.Fprintf(&b, "  %s\n", m.ID)
		}
		st.AppendSystemMessage(b.String())
		return Result{ShouldConsume: true}

	case "/model":
		if len(args) != 1 {
			st.AppendSystemMessage("usage: /model <name>")
			return Result{ShouldConsume: true}
		}
		st.SetModelName(args[0])
		st.AppendSystemMessage(fmt.Sprintf("switched to model %s", args[0]))
		return Result{ShouldConsume: true}

	case "/append", "/replace":
		n, ok := parseBlockArg(st, args)
		if !ok {
			return Result{ShouldConsume: true}
		}
		t := event.AcceptAppend
		if cmd == "/replace" {
			t = event.AcceptReplace
		}
		action := event.AcceptCodeBlockAction(st.EditorContext(), n.Code, t)
		return Result{ShouldConsume: true, Action: &action}

	case "/copy":
		n, ok := parseBlockArg(st, args)
		if !ok {
			return Result{ShouldConsume: true}
		}
		if err := clipboard.CopyText(n.Code); err != nil {
			st.AppendSystemMessage(fmt.Sprintf("error copying to clipboard: %v", err))
		} else {
			st.AppendSystemMessage(fmt.Sprintf("copied code block %d to clipboard", n.Index))
		}
		return Result{ShouldConsume: true}

	default:
		st.AppendSystemMessage(fmt.Sprintf("unknown command %q (try /help)", cmd))
		return Result{ShouldConsume: true}
	}
}

func parseBlockArg(st State, args []string) (msg.CodeBlock, bool) {
	if len(args) != 1 {
		st.AppendSystemMessage("usage: " + "<command> <code block number>")
		return msg.CodeBlock{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		st.AppendSystemMessage(fmt.Sprintf("%q is not a code block number", args[0]))
		return msg.CodeBlock{}, false
	}
	for _, b := range st.AllCodeBlocks() {
		if b.Index == n {
			return b, true
		}
	}
	st.AppendSystemMessage(fmt.Sprintf("no code block numbered [%d]", n))
	return msg.CodeBlock{}, false
}

const helpText = `Commands:
  /quit              exit the chat
  /help              show this message
  /modellist         list models available on the current backend
  /model <name>      switch the active model
  /append <n>        send code block [n] to the editor, appending
  /replace <n>       send code block [n] to the editor, replacing the buffer
  /copy <n>          copy code block [n] to the clipboard`
