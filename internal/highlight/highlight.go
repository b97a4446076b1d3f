// Package highlight provides ANSI syntax highlighting for fenced code
// blocks and the display-column-aware measurement the bubble renderer and
// cache need once lines carry highlight escape codes. Adapted from the
// teacher's internal/ui/highlight.go, which the teacher used for diff
// hunks — the lexer/formatter machinery is identical, only the caller
// (code-block bodies keyed by language tag rather than file path) differs.
package highlight

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"
)

// Highlighter tokenizes and ANSI-colors lines of one language.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// New builds a Highlighter for the given fenced-block language tag (e.g.
// "go", "python"). Returns nil if the language isn't recognized, in which
// case callers should render the block as plain text.
func New(language string) *Highlighter {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{lexer: lexer, style: style}
}

// Line applies syntax highlighting to one line of source, with no
// background color set — the bubble renderer's own span background
// (selection, user-message tint) layers on top per-span, not per-token.
func (h *Highlighter) Line(line string) string {
	if h == nil {
		return line
	}
	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf strings.Builder
	if err := (&noBgFormatter{style: h.style}).format(&buf, iterator); err != nil {
		return line
	}
	return buf.String()
}

type noBgFormatter struct {
	style *chroma.Style
}

func (f *noBgFormatter) format(w io.Writer, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		value := strings.TrimRight(token.Value, "\n")
		if value == "" {
			continue
		}
		entry := f.style.Get(token.Type)

		var codes []string
		if entry.Colour.IsSet() {
			codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
		}
		if entry.Bold == chroma.Yes {
			codes = append(codes, "1")
		}
		if entry.Italic == chroma.Yes {
			codes = append(codes, "3")
		}
		if entry.Underline == chroma.Yes {
			codes = append(codes, "4")
		}

		if len(codes) > 0 {
			fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), value)
		} else {
			fmt.Fprint(w, value)
		}
	}
	return nil
}

const tabWidth = 8

func advanceColumn(col int, r rune) int {
	switch r {
	case '\t':
		return col + (tabWidth - (col % tabWidth))
	case '\n':
		return 0
	}
	width := runewidth.RuneWidth(r)
	if width < 0 {
		width = 0
	}
	return col + width
}

// DisplayWidth measures s's on-screen column width starting at startCol,
// skipping ANSI escape sequences and accounting for wide runes and tabs —
// required because code-block lines already carry highlight escapes before
// word-wrap and selection math run over them.
func DisplayWidth(s string, startCol int) int {
	col := startCol
	inEscape := false
	for i := 0; i < len(s); {
		b := s[i]
		if b == '\x1b' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
				inEscape = false
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			col++
			i++
			continue
		}
		col = advanceColumn(col, r)
		i += size
	}
	if col < startCol {
		return 0
	}
	return col - startCol
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Len returns s's display width ignoring ANSI escape sequences.
func Len(s string) int {
	return DisplayWidth(s, 0)
}
