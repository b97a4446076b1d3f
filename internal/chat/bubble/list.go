package bubble

import (
	"strings"

	"github.com/samsaffron/oatmeal/internal/chat/geom"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/theme"
)

// CacheEntry is the per-message memo, matching spec's invariant that the
// tail message's entry is valid only while TextLen still matches. Unlike
// the teacher's internal/render/chat/cache.go BlockCache, this cache never
// evicts: every message index stays resident for the life of the
// conversation, which is what keeps List.linesLen an exact running sum
// rather than an estimate.
type CacheEntry struct {
	CodeBlocksCount int
	TextLen         int
	Lines           []Line
}

// List is the BubbleList: an insertion-ordered, index-keyed layout cache
// over the full message history.
type List struct {
	entries   []*CacheEntry
	lineWidth int
	linesLen  int

	theme     *theme.Theme
	username  string
	modelName string
}

// NewList builds an empty BubbleList bound to a theme and the display
// names used to resolve author labels.
func NewList(th *theme.Theme, username, modelName string) *List {
	return &List{theme: th, username: username, modelName: modelName}
}

// LinesLen is the total rendered height across every cached entry.
func (l *List) LinesLen() int { return l.linesLen }

// SetMessages re-lays-out messages against lineWidth, reusing cached
// entries per spec §4.D: a width change invalidates everything; otherwise
// only the tail entry is re-laid-out when its message grew.
func (l *List) SetMessages(messages []msg.Message, lineWidth int) {
	widthChanged := lineWidth != l.lineWidth
	l.lineWidth = lineWidth

	if widthChanged {
		l.entries = make([]*CacheEntry, len(messages))
	} else if len(l.entries) > len(messages) {
		l.entries = l.entries[:len(messages)]
	} else if len(l.entries) < len(messages) {
		grown := make([]*CacheEntry, len(messages))
		copy(grown, l.entries)
		l.entries = grown
	}

	counter := 0
	total := 0
	alignment := func(a msg.Author) Alignment {
		if a == msg.AuthorUser {
			return AlignRight
		}
		return AlignLeft
	}

	for i, m := range messages {
		isTail := i == len(messages)-1
		entry := l.entries[i]

		hit := entry != nil && (!isTail || len(m.Text) == entry.TextLen)
		if hit {
			counter += entry.CodeBlocksCount
			total += len(entry.Lines)
			continue
		}

		lines, count := Render(m, alignment(m.Author), lineWidth, counter, l.theme, l.username, l.modelName)
		entry = &CacheEntry{CodeBlocksCount: count, TextLen: len(m.Text), Lines: lines}
		l.entries[i] = entry
		counter += count
		total += len(lines)
	}

	l.linesLen = total
}

// Render emits lines starting after scrollIndex logical lines, for at most
// rect height lines, into buf starting at column 0.
func (l *List) Render(buf []string, scrollIndex, height int) []string {
	skip := scrollIndex
	emitted := 0
	for _, entry := range l.entries {
		if entry == nil {
			continue
		}
		for _, line := range entry.Lines {
			if skip > 0 {
				skip--
				continue
			}
			if emitted >= height {
				return buf
			}
			buf = append(buf, line.Render())
			emitted++
		}
	}
	return buf
}

// Highlight applies a selected background to every text-bearing span
// between start and end (history coordinates, start assumed <= end).
func (l *List) Highlight(start, end geom.Point) {
	l.ResetHighlight()
	l.paintSelection(geom.Min(start, end), geom.Max(start, end), true)
}

// ResetHighlight clears the selected background across every entry.
func (l *List) ResetHighlight() {
	for _, e := range l.entries {
		if e == nil {
			continue
		}
		for li := range e.Lines {
			spans := e.Lines[li].Spans
			for si := range spans {
				if spans[si].Selected {
					spans[si].Style = spans[si].Style.UnsetBackground()
					spans[si].Selected = false
				}
			}
		}
	}
}

// YankSelectedLines concatenates the inner text of every line touched by
// [start, end], newline-separated, omitting border glyphs and blank spans,
// independent of which endpoint the caller calls "start".
func (l *List) YankSelectedLines(start, end geom.Point) string {
	a, b := geom.Min(start, end), geom.Max(start, end)
	var out []string
	row := 0
	for _, e := range l.entries {
		if e == nil {
			continue
		}
		for li := range e.Lines {
			if row >= a.Row && row <= b.Row {
				out = append(out, e.Lines[li].PlainText())
			}
			row++
		}
	}
	return strings.Join(out, "\n")
}

// paintSelection marks spans selected for rows in [start.Row, end.Row],
// trimming by column on the first and last row.
func (l *List) paintSelection(start, end geom.Point, selected bool) {
	row := 0
	for _, e := range l.entries {
		if e == nil {
			continue
		}
		for li := range e.Lines {
			if row >= start.Row && row <= end.Row {
				paintLineSpans(&e.Lines[li], l.theme, row == start.Row, row == end.Row, start.Col, end.Col, selected)
			}
			row++
		}
	}
}

func paintLineSpans(line *Line, th *theme.Theme, clampStart, clampEnd bool, startCol, endCol int, selected bool) {
	col := 0
	for si := range line.Spans {
		s := &line.Spans[si]
		if isSkippableSpan(*s) {
			col += len([]rune(s.Text))
			continue
		}
		spanLen := len([]rune(s.Text))
		spanStart, spanEnd := col, col+spanLen
		col = spanEnd

		if clampStart && spanEnd <= startCol {
			continue
		}
		if clampEnd && spanStart >= endCol {
			continue
		}
		if selected {
			s.Style = s.Style.Background(th.SelectedBg)
			s.Selected = true
		}
	}
}
