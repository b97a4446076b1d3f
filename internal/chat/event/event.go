// Package event defines the semantic events the UI driver consumes and the
// actions it emits in response, decoupling the bubbletea message types the
// input source translates from the domain vocabulary AppState understands.
package event

import (
	"github.com/samsaffron/oatmeal/internal/chat/geom"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/llm"
)

// Kind tags an Event's variant.
type Kind int

const (
	KindBackendMessage Kind = iota
	KindBackendPromptResponse
	KindKeyChar
	KindCtrlC
	KindCtrlO
	KindCtrlR
	KindEnter
	KindPaste
	KindTick
	KindScrollUp
	KindScrollDown
	KindScrollPageUp
	KindScrollPageDown
	KindHighlight
	KindSelect
)

// Event is the sum type flowing into the UI driver's Update loop.
type Event struct {
	Kind Kind

	BackendMessage msg.Message
	BackendResp    llm.Event

	Char  rune
	Paste string

	Start geom.Point
	End   geom.Point
}

func BackendMessageEvent(m msg.Message) Event {
	return Event{Kind: KindBackendMessage, BackendMessage: m}
}
func BackendPromptResponseEvent(r llm.Event) Event {
	return Event{Kind: KindBackendPromptResponse, BackendResp: r}
}
func KeyCharEvent(r rune) Event          { return Event{Kind: KindKeyChar, Char: r} }
func CtrlCEvent() Event                  { return Event{Kind: KindCtrlC} }
func CtrlOEvent() Event                  { return Event{Kind: KindCtrlO} }
func CtrlREvent() Event                  { return Event{Kind: KindCtrlR} }
func EnterEvent() Event                  { return Event{Kind: KindEnter} }
func PasteEvent(text string) Event       { return Event{Kind: KindPaste, Paste: text} }
func TickEvent() Event                   { return Event{Kind: KindTick} }
func ScrollUpEvent() Event               { return Event{Kind: KindScrollUp} }
func ScrollDownEvent() Event             { return Event{Kind: KindScrollDown} }
func ScrollPageUpEvent() Event           { return Event{Kind: KindScrollPageUp} }
func ScrollPageDownEvent() Event         { return Event{Kind: KindScrollPageDown} }
func HighlightEvent(a, b geom.Point) Event {
	return Event{Kind: KindHighlight, Start: a, End: b}
}
func SelectEvent(a, b geom.Point) Event {
	return Event{Kind: KindSelect, Start: a, End: b}
}

// AcceptType distinguishes how AcceptCodeBlock applies text to an editor.
type AcceptType int

const (
	AcceptAppend AcceptType = iota
	AcceptReplace
)

// ActionKind tags an Action's variant.
type ActionKind int

const (
	ActionBackendRequest ActionKind = iota
	ActionBackendAbort
	ActionAcceptCodeBlock
)

// BackendPrompt is the outgoing request payload; BackendContext is the
// opaque string a prior response echoed back (empty on the first turn).
type BackendPrompt struct {
	Text           string
	BackendContext string
}

// Action is the sum type the UI driver emits toward the backend worker and
// the editor worker.
type Action struct {
	Kind ActionKind

	Prompt BackendPrompt

	EditorContext string
	Code          string
	AcceptType    AcceptType
}

func BackendRequestAction(p BackendPrompt) Action {
	return Action{Kind: ActionBackendRequest, Prompt: p}
}
func BackendAbortAction() Action { return Action{Kind: ActionBackendAbort} }
func AcceptCodeBlockAction(editorContext, code string, t AcceptType) Action {
	return Action{Kind: ActionAcceptCodeBlock, EditorContext: editorContext, Code: code, AcceptType: t}
}
