// Package state owns AppState: the conversation transcript, the BubbleList
// layout cache, scroll position, and the flags the event loop reads to
// decide what to draw and what's still in flight. It is the single
// mutator the event loop (internal/chat/ui) drives; nothing outside the UI
// task ever touches it, so no field needs a lock.
package state

import (
	"github.com/samsaffron/oatmeal/internal/chat/bubble"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/chat/slash"
	"github.com/samsaffron/oatmeal/internal/llm"
	"github.com/samsaffron/oatmeal/internal/theme"
)

// Scroll is the viewport's vertical offset into BubbleList's rendered
// lines, plus the scrollbar thumb geometry derived from it at render time.
type Scroll struct {
	Position int
}

// State is AppState: the conversation, its rendered-line cache, and the
// handful of flags the event loop needs to gate input and draw chrome.
type State struct {
	Messages  []msg.Message
	BubbleList *bubble.List
	Scroll    Scroll

	WaitingForBackend bool
	ExitWarning       bool

	BackendContext string
	editorContext  string

	LastKnownWidth  int
	LastKnownHeight int
	inputLineCount  int

	provider  llm.Provider
	modelName string
	username  string

	atBottom bool
}

// New builds an empty AppState bound to a provider, model name, username,
// and theme — the theme and username flow straight into the BubbleList so
// author labels and bubble colors resolve the same way render() does.
func New(provider llm.Provider, modelName, username string, th *theme.Theme) *State {
	return &State{
		BubbleList: bubble.NewList(th, username, modelName),
		provider:   provider,
		modelName:  modelName,
		username:   username,
		atBottom:   true,

		inputLineCount: 1,
	}
}

// Provider, ModelName, SetModelName, AppendSystemMessage, AllCodeBlocks,
// and EditorContext satisfy slash.State.
func (s *State) Provider() llm.Provider    { return s.provider }
func (s *State) ModelName() string         { return s.modelName }
func (s *State) SetModelName(name string)  { s.modelName = name }
func (s *State) EditorContext() string     { return s.editorContext }
func (s *State) SetEditorContext(ctx string) { s.editorContext = ctx }

func (s *State) AppendSystemMessage(text string) {
	s.AddMessage(msg.New(msg.AuthorSystem, text))
}

func (s *State) AllCodeBlocks() []msg.CodeBlock {
	return msg.AllCodeBlocks(s.Messages)
}

// viewportHeight is the number of history rows currently visible, used to
// clamp scroll and to decide whether the user was already at the bottom
// before a mutation grows the history.
func (s *State) viewportHeight() int {
	h := s.LastKnownHeight - inputRectHeight(s)
	if h < 1 {
		h = 1
	}
	return h
}

// inputRectHeight mirrors the event loop's split: input.line_count + 3 for
// border and padding. AppState doesn't track the textarea itself, so
// callers needing the exact figure pass it through SetInputLineCount;
// absent that, 1 line is assumed (the freshly-focused empty textarea).
func inputRectHeight(s *State) int {
	return s.inputLineCount + 3
}

// SetInputLineCount records the textarea's current line count so
// viewportHeight (and therefore scroll clamping) stays accurate as the
// user types multi-line input.
func (s *State) SetInputLineCount(n int) {
	s.inputLineCount = n
}

// AddMessage appends m, relays out the BubbleList, and keeps the scroll
// position pinned to the bottom if it already was before the append —
// spec §4.G's "updates scroll to track bottom if the user was already at
// the bottom prior."
func (s *State) AddMessage(m msg.Message) {
	wasAtBottom := s.atBottom
	s.Messages = append(s.Messages, m)
	s.relayout()
	if wasAtBottom {
		s.scrollToBottom()
	}
	s.atBottom = s.isAtBottom()
}

// HandleBackendResponse folds one streamed delta into the transcript: it
// grows the tail Message if the tail is already an assistant reply, or
// starts a new one. On done, it stores resp.Context into BackendContext.
//
// Unlike AddMessage, this deliberately does not track the bottom while a
// stream is in flight (spec's open question on scroll-during-streaming):
// a user who has scrolled up to reread earlier context keeps their
// position as the tail message grows underneath, rather than being
// yanked back down on every delta.
func (s *State) HandleBackendResponse(resp llm.Event) {
	if resp.Text != "" {
		if n := len(s.Messages); n > 0 && s.Messages[n-1].Author == msg.AuthorAssistant {
			s.Messages[n-1].Text += resp.Text
		} else {
			s.Messages = append(s.Messages, msg.New(msg.AuthorAssistant, resp.Text))
		}
		s.relayout()
	}

	if resp.Type == llm.EventDone {
		s.WaitingForBackend = false
		if resp.Context != nil {
			s.BackendContext = *resp.Context
		}
	}

	s.atBottom = s.isAtBottom()
}

// SetRect records the current frame dimensions and relays out the
// BubbleList against the new width.
func (s *State) SetRect(width, height int) {
	s.LastKnownWidth = width
	s.LastKnownHeight = height
	s.relayout()
}

// HandleSlashCommands parses input as a slash command (caller must have
// confirmed slash.IsCommand first) and executes it against this State.
func (s *State) HandleSlashCommands(input string) slash.Result {
	return slash.Execute(s, input)
}

// LastUserMessage returns the latest Author::User entry whose text is not
// itself a slash command, for Ctrl-R resubmission. ok is false if none
// exists.
func (s *State) LastUserMessage() (m msg.Message, ok bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Author == msg.AuthorUser && !slash.IsCommand(s.Messages[i].Text) {
			return s.Messages[i], true
		}
	}
	return msg.Message{}, false
}

// ScrollUp/ScrollDown/ScrollPageUp/ScrollPageDown mutate Scroll.Position,
// clamped to [0, lines_len - viewport_height].
func (s *State) ScrollUp()       { s.scrollBy(-1) }
func (s *State) ScrollDown()     { s.scrollBy(1) }
func (s *State) ScrollPageUp()   { s.scrollBy(-s.viewportHeight()) }
func (s *State) ScrollPageDown() { s.scrollBy(s.viewportHeight()) }

func (s *State) scrollBy(delta int) {
	s.Scroll.Position = clamp(s.Scroll.Position+delta, s.maxScroll())
	s.atBottom = s.isAtBottom()
}

func (s *State) scrollToBottom() {
	s.Scroll.Position = s.maxScroll()
}

func (s *State) isAtBottom() bool {
	return s.Scroll.Position >= s.maxScroll()
}

func (s *State) maxScroll() int {
	m := s.BubbleList.LinesLen() - s.viewportHeight()
	if m < 0 {
		m = 0
	}
	return m
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (s *State) relayout() {
	if s.LastKnownWidth <= 0 {
		return
	}
	s.BubbleList.SetMessages(s.Messages, s.LastKnownWidth)
	s.Scroll.Position = clamp(s.Scroll.Position, s.maxScroll())
}
