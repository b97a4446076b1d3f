// Package input is the Input Source (spec §4.B): it translates raw
// bubbletea tea.Msg values — keys, mouse, bracketed paste, resize — into
// the semantic internal/chat/event.Event vocabulary the event loop
// consumes. Grounded on the teacher's internal/tui/chat/mouse.go for the
// mouse-drag bookkeeping and keys.go for key.Binding-style key mapping,
// trimmed to the handful of keys and the single left-button drag this
// client's selection model needs.
package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/geom"
)

// TickInterval bounds worst-case redraw latency for streaming content per
// spec §4.B: "If no event arrives within 500ms the source emits Tick."
const TickInterval = 500 * 1000000 // 500ms, in time.Duration's ns units

// Mouse is the left-button drag state machine described in spec §4.B:
// LeftDown remembers an anchor, LeftDrag (while anchor is set) emits
// Highlight, LeftUp emits Select and clears the anchor. LeftUp without a
// prior LeftDown is ignored. The zero value has no anchor set.
type Mouse struct {
	anchor    geom.Point
	hasAnchor bool
}

// Translate maps one tea.MouseMsg into an Event, or reports ok=false if
// the message doesn't correspond to a selection-relevant action (e.g. a
// right-click, or a LeftUp with no prior LeftDown).
func (m *Mouse) Translate(msg tea.MouseMsg) (event.Event, bool) {
	p := geom.Point{Col: msg.X, Row: msg.Y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return event.ScrollUpEvent(), true
	case msg.Button == tea.MouseButtonWheelDown:
		return event.ScrollDownEvent(), true
	case msg.Button != tea.MouseButtonLeft:
		return event.Event{}, false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.anchor = p
		m.hasAnchor = true
		return event.Event{}, false

	case tea.MouseActionMotion:
		if !m.hasAnchor {
			return event.Event{}, false
		}
		return event.HighlightEvent(m.anchor, p), true

	case tea.MouseActionRelease:
		if !m.hasAnchor {
			return event.Event{}, false
		}
		anchor := m.anchor
		m.hasAnchor = false
		return event.SelectEvent(anchor, p), true

	default:
		return event.Event{}, false
	}
}

// TranslateKey maps one tea.KeyMsg into an Event per spec §4.B's table.
// Keys the table doesn't name (ordinary runes, backspace, arrows used for
// textarea editing, etc.) fall through to KindKeyChar so the caller feeds
// them to the textarea; a key carrying exactly one rune has that rune in
// Char, any other key leaves Char zero.
func TranslateKey(msg tea.KeyMsg) event.Event {
	switch msg.Type {
	case tea.KeyCtrlC:
		return event.CtrlCEvent()
	case tea.KeyCtrlO:
		return event.CtrlOEvent()
	case tea.KeyCtrlR:
		return event.CtrlREvent()
	case tea.KeyEnter:
		return event.EnterEvent()
	case tea.KeyUp:
		return event.ScrollUpEvent()
	case tea.KeyDown:
		return event.ScrollDownEvent()
	case tea.KeyPgUp, tea.KeyCtrlU:
		return event.ScrollPageUpEvent()
	case tea.KeyPgDown, tea.KeyCtrlD:
		return event.ScrollPageDownEvent()
	default:
		runes := msg.Runes
		if len(runes) == 1 {
			return event.KeyCharEvent(runes[0])
		}
		return event.Event{Kind: event.KindKeyChar}
	}
}

// TranslatePaste maps bracketed-paste content into an Event, normalizing
// CRLF to LF per spec §4.H's Paste handling ("replace \r with \n").
func TranslatePaste(text string) event.Event {
	return event.PasteEvent(normalizeNewlines(text))
}

func normalizeNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' {
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
