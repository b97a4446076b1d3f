// Package bubble renders one chat Message into a list of styled terminal
// lines (the Bubble Renderer) and memoizes that layout across the whole
// transcript (the BubbleList cache). Layout uses lipgloss for the rounded
// border and colors, muesli/reflow for grapheme-aware word wrap, and
// internal/highlight for fenced code blocks — the same library stack the
// teacher's internal/render/chat/message_block.go and internal/tui/chat/
// mouse.go use for bubble rendering and display-column math.
package bubble

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/highlight"
	"github.com/samsaffron/oatmeal/internal/theme"
)

// Alignment picks which side of the frame a bubble hugs.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const (
	outerPaddingFraction = 0.08
	bubblePadding        = 2 // one space of interior padding on each side
	borderWidth          = 2 // one border column on each side
)

// Span is one styled run of text within a Line. Border spans (box-drawing
// glyphs) are skipped by selection highlighting and yank.
type Span struct {
	Text   string
	Style  lipgloss.Style
	Border bool
	// PreStyled is true when Text already carries its own ANSI escapes
	// (chroma-highlighted code) and Style should not be applied on render.
	PreStyled bool
	// Selected is true while this span is under a live mouse selection.
	Selected bool
}

// Line is one fully laid out terminal row, the unit BubbleList caches and
// selection operates on.
type Line struct {
	Spans []Span
}

// Render returns the line's full escape-coded text.
func (l Line) Render() string {
	var b strings.Builder
	for _, s := range l.Spans {
		switch {
		case s.PreStyled && s.Selected:
			// The chroma formatter resets after every token, which would
			// cancel a background wrapped around the whole span; a
			// best-effort background-only prefix still reads correctly
			// for the common case of a single-token or uncolored line.
			b.WriteString(s.Style.Render(s.Text))
		case s.PreStyled:
			b.WriteString(s.Text)
		default:
			b.WriteString(s.Style.Render(s.Text))
		}
	}
	return b.String()
}

// PlainText returns the line's inner text, skipping border glyphs and
// blank padding spans, for use by selection yank.
func (l Line) PlainText() string {
	var b strings.Builder
	for _, s := range l.Spans {
		if isSkippableSpan(s) {
			continue
		}
		b.WriteString(highlight.Strip(s.Text))
	}
	return b.String()
}

var borderGlyphs = "│─╭╮╰╯"

// isSkippableSpan reports whether a span should be skipped by selection
// highlighting and yank: border-glyph spans, and spans whose trimmed
// content is empty.
func isSkippableSpan(s Span) bool {
	trimmed := strings.TrimSpace(highlight.Strip(s.Text))
	if trimmed == "" {
		return true
	}
	if s.Border {
		return true
	}
	for _, r := range trimmed {
		if !strings.ContainsRune(borderGlyphs, r) {
			return false
		}
	}
	return true
}

// MinWidth is the minimum viable frame width for rendering real bubbles,
// below which the renderer is bypassed in favor of a placeholder.
func MinWidth(username, modelName string) int {
	longest := 0
	for _, label := range []string{
		msg.AuthorUser.Label(username, modelName),
		msg.AuthorAssistant.Label(username, modelName),
		msg.AuthorSystem.Label(username, modelName),
	} {
		if w := lipgloss.Width(label); w > longest {
			longest = w
		}
	}
	inner := longest + bubblePadding + borderWidth
	return int(float64(inner) / (1 - outerPaddingFraction))
}

// segment is one run of a message's text: either prose or one fenced code
// block.
type segment struct {
	code     bool
	language string
	text     string
}

// splitSegments walks text line by line, isolating fenced ``` regions.
func splitSegments(text string) []segment {
	lines := strings.Split(text, "\n")
	var segs []segment
	var cur strings.Builder
	inCode := false
	var lang string

	flush := func(code bool, language string) {
		if cur.Len() == 0 && len(segs) > 0 {
			return
		}
		segs = append(segs, segment{code: code, language: language, text: cur.String()})
		cur.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inCode && strings.HasPrefix(trimmed, "```"):
			flush(false, "")
			inCode = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
		case inCode && strings.HasPrefix(trimmed, "```"):
			flush(true, lang)
			inCode = false
			lang = ""
		default:
			if cur.Len() > 0 {
				cur.WriteByte('\n')
			}
			cur.WriteString(line)
		}
	}
	if inCode {
		flush(true, lang)
	} else {
		flush(false, "")
	}
	return segs
}

// Render lays out one Message into a bordered bubble. codeBlockStart is the
// running global code-block counter before this message; Render returns the
// rendered lines and how many code blocks this message contributed, so the
// caller can advance its own counter.
func Render(m msg.Message, alignment Alignment, lineWidth int, codeBlockStart int, th *theme.Theme, username, modelName string) ([]Line, int) {
	innerWidth := lineWidth - int(float64(lineWidth)*outerPaddingFraction) - bubblePadding - borderWidth
	if innerWidth < 4 {
		innerWidth = 4
	}

	label := m.Author.Label(username, modelName)
	fg := th.Text
	if m.Author == msg.AuthorAssistant {
		fg = th.Primary
	} else if m.Author == msg.AuthorSystem {
		fg = th.Muted
	}

	borderStyle := lipgloss.NewStyle().Foreground(th.Border)
	labelStyle := lipgloss.NewStyle().Foreground(fg).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(fg)

	if m.Author == msg.AuthorUser && th.UserMsgBg != "" {
		textStyle = textStyle.Background(th.UserMsgBg)
	}

	var lines []Line
	lines = append(lines, topBorder(label, innerWidth, alignment, borderStyle, labelStyle))

	counter := codeBlockStart
	for _, seg := range splitSegments(m.Text) {
		if seg.text == "" {
			continue
		}
		if seg.code {
			counter++
			h := highlight.New(seg.language)
			for _, raw := range strings.Split(seg.text, "\n") {
				rendered := fmt.Sprintf("[%d] %s", counter, raw)
				if h != nil {
					rendered = fmt.Sprintf("[%d] %s", counter, h.Line(raw))
				}
				lines = append(lines, contentLine(rendered, innerWidth, borderStyle, true))
			}
			continue
		}
		wrapped := wordwrap.String(seg.text, innerWidth)
		for _, raw := range strings.Split(wrapped, "\n") {
			lines = append(lines, contentLineStyled(raw, innerWidth, borderStyle, textStyle))
		}
	}

	lines = append(lines, bottomBorder(innerWidth, borderStyle))
	return lines, counter - codeBlockStart
}

func topBorder(label string, innerWidth int, alignment Alignment, borderStyle, labelStyle lipgloss.Style) Line {
	labelText := " " + label + " "
	// one leading and one trailing dash frame the label; whatever's left
	// of innerWidth fills the other side, biased by alignment.
	fill := innerWidth - lipgloss.Width(labelText) - 2
	if fill < 0 {
		fill = 0
	}
	var spans []Span
	spans = append(spans, Span{Text: "╭", Style: borderStyle, Border: true})
	if alignment == AlignLeft {
		spans = append(spans, Span{Text: "─", Style: borderStyle, Border: true})
		spans = append(spans, Span{Text: labelText, Style: labelStyle})
		spans = append(spans, Span{Text: strings.Repeat("─", fill+1), Style: borderStyle, Border: true})
	} else {
		spans = append(spans, Span{Text: strings.Repeat("─", fill+1), Style: borderStyle, Border: true})
		spans = append(spans, Span{Text: labelText, Style: labelStyle})
		spans = append(spans, Span{Text: "─", Style: borderStyle, Border: true})
	}
	spans = append(spans, Span{Text: "╮", Style: borderStyle, Border: true})
	return Line{Spans: spans}
}

func bottomBorder(innerWidth int, borderStyle lipgloss.Style) Line {
	return Line{Spans: []Span{
		{Text: "╰", Style: borderStyle, Border: true},
		{Text: strings.Repeat("─", innerWidth), Style: borderStyle, Border: true},
		{Text: "╯", Style: borderStyle, Border: true},
	}}
}

func contentLine(rendered string, innerWidth int, borderStyle lipgloss.Style, preStyled bool) Line {
	width := highlight.DisplayWidth(rendered, 0)
	pad := innerWidth - width
	if pad < 0 {
		pad = 0
	}
	text := rendered + strings.Repeat(" ", pad)
	return Line{Spans: []Span{
		{Text: "│", Style: borderStyle, Border: true},
		{Text: text, PreStyled: preStyled},
		{Text: "│", Style: borderStyle, Border: true},
	}}
}

func contentLineStyled(raw string, innerWidth int, borderStyle, textStyle lipgloss.Style) Line {
	width := lipgloss.Width(raw)
	pad := innerWidth - width
	if pad < 0 {
		pad = 0
	}
	text := raw + strings.Repeat(" ", pad)
	return Line{Spans: []Span{
		{Text: "│", Style: borderStyle, Border: true},
		{Text: text, Style: textStyle},
		{Text: "│", Style: borderStyle, Border: true},
	}}
}
