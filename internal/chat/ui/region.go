package ui

import "github.com/samsaffron/oatmeal/internal/chat/geom"

// validateRegion translates both endpoints from viewport to history
// coordinates (adding scrollPosition to Row), normalizes order, and
// rejects the region if its normalized start row falls inside the
// input-area rows — spec §4.H's region validation:
//
//	position + viewport_h − input_lines − 3 ≤ start.row
func validateRegion(a, b geom.Point, scrollPosition, viewportHeight, inputLines int) (start, end geom.Point, ok bool) {
	histA := a.ShiftRow(scrollPosition)
	histB := b.ShiftRow(scrollPosition)
	start, end = geom.Min(histA, histB), geom.Max(histA, histB)

	inputBoundary := scrollPosition + viewportHeight - inputLines - 3
	if start.Row >= inputBoundary {
		return geom.Point{}, geom.Point{}, false
	}
	return start, end, true
}
