package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/geom"
)

func TestMouseDragEmitsHighlightThenSelect(t *testing.T) {
	var m Mouse

	if _, ok := m.Translate(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, X: 2, Y: 1}); ok {
		t.Fatal("LeftDown should emit nothing")
	}

	ev, ok := m.Translate(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion, X: 10, Y: 2})
	if !ok || ev.Kind != event.KindHighlight {
		t.Fatalf("expected Highlight after drag, got %+v, ok=%v", ev, ok)
	}
	if ev.Start != (geom.Point{Col: 2, Row: 1}) {
		t.Fatalf("Highlight start = %+v, want anchor", ev.Start)
	}

	ev, ok = m.Translate(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease, X: 20, Y: 3})
	if !ok || ev.Kind != event.KindSelect {
		t.Fatalf("expected Select on release, got %+v, ok=%v", ev, ok)
	}
	if ev.End != (geom.Point{Col: 20, Row: 3}) {
		t.Fatalf("Select end = %+v", ev.End)
	}
}

func TestMouseReleaseWithoutDownIsIgnored(t *testing.T) {
	var m Mouse
	if _, ok := m.Translate(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease, X: 1, Y: 1}); ok {
		t.Fatal("LeftUp without a prior LeftDown should be ignored")
	}
}

func TestMouseWheelScrolls(t *testing.T) {
	var m Mouse
	ev, ok := m.Translate(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if !ok || ev.Kind != event.KindScrollUp {
		t.Fatalf("wheel up should scroll up, got %+v", ev)
	}
	ev, ok = m.Translate(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if !ok || ev.Kind != event.KindScrollDown {
		t.Fatalf("wheel down should scroll down, got %+v", ev)
	}
}

func TestTranslateKeyMapping(t *testing.T) {
	cases := []struct {
		in   tea.KeyMsg
		want event.Kind
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, event.KindCtrlC},
		{tea.KeyMsg{Type: tea.KeyCtrlO}, event.KindCtrlO},
		{tea.KeyMsg{Type: tea.KeyCtrlR}, event.KindCtrlR},
		{tea.KeyMsg{Type: tea.KeyEnter}, event.KindEnter},
		{tea.KeyMsg{Type: tea.KeyPgUp}, event.KindScrollPageUp},
		{tea.KeyMsg{Type: tea.KeyCtrlU}, event.KindScrollPageUp},
		{tea.KeyMsg{Type: tea.KeyPgDown}, event.KindScrollPageDown},
		{tea.KeyMsg{Type: tea.KeyCtrlD}, event.KindScrollPageDown},
		{tea.KeyMsg{Type: tea.KeyUp}, event.KindScrollUp},
		{tea.KeyMsg{Type: tea.KeyDown}, event.KindScrollDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, event.KindKeyChar},
	}
	for _, c := range cases {
		got := TranslateKey(c.in)
		if got.Kind != c.want {
			t.Errorf("TranslateKey(%+v).Kind = %v, want %v", c.in, got.Kind, c.want)
		}
	}
}

func TestTranslatePasteNormalizesNewlines(t *testing.T) {
	ev := TranslatePaste("line1\r\nline2\rline3")
	if ev.Paste != "line1\nline2\nline3" {
		t.Fatalf("Paste = %q", ev.Paste)
	}
}
