package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const placeholderText = "(terminal too narrow — resize to use Oatmeal)"

// View draws one frame: placeholder if the frame is too narrow, else the
// history rect (BubbleList + scrollbar) over the input rect (spinner while
// waiting, the textarea otherwise) — spec §4.H's Draw step.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.width < m.bubbleMinWidth() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, placeholderText)
	}

	inputHeight := m.inputRectHeight()
	historyHeight := m.height - inputHeight
	if historyHeight < 1 {
		historyHeight = 1
	}

	history := m.renderHistory(historyHeight)
	inputArea := m.renderInput()

	var b strings.Builder
	b.WriteString(history)
	b.WriteString("\n")
	b.WriteString(inputArea)
	if m.state.ExitWarning {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render("press Ctrl-C again to quit"))
	}
	return b.String()
}

// renderHistory renders the BubbleList's visible window and a vertical
// scrollbar in the rightmost column.
func (m *Model) renderHistory(height int) string {
	lines := m.state.BubbleList.Render(nil, m.state.Scroll.Position, height)
	for len(lines) < height {
		lines = append(lines, "")
	}

	thumbRow := scrollbarThumbRow(m.state.Scroll.Position, m.state.BubbleList.LinesLen(), height)
	barStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	thumbStyle := lipgloss.NewStyle().Foreground(m.theme.Secondary)

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		if i == thumbRow {
			b.WriteString(thumbStyle.Render("┃"))
		} else {
			b.WriteString(barStyle.Render("│"))
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// scrollbarThumbRow maps a scroll position to the thumb's row within the
// viewport, clamped so a one-screen-or-shorter history still shows a
// thumb at the top.
func scrollbarThumbRow(position, linesLen, height int) int {
	if linesLen <= height {
		return 0
	}
	maxPos := linesLen - height
	frac := float64(position) / float64(maxPos)
	row := int(frac * float64(height-1))
	if row < 0 {
		row = 0
	}
	if row > height-1 {
		row = height - 1
	}
	return row
}

func (m *Model) renderInput() string {
	border := lipgloss.NewStyle().Foreground(m.theme.Border)
	top := border.Render(strings.Repeat("─", m.width))
	if m.state.WaitingForBackend {
		spin := m.spinner.View() + " waiting for response…"
		return top + "\n" + spin + "\n" + top
	}
	return top + "\n" + m.textarea.View() + "\n" + top
}
