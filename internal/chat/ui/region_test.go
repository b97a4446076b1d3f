package ui

import (
	"testing"

	"github.com/samsaffron/oatmeal/internal/chat/geom"
)

func TestValidateRegionNormalizesDragDirection(t *testing.T) {
	a := geom.Point{Col: 20, Row: 2}
	b := geom.Point{Col: 4, Row: 1}

	s1, e1, ok1 := validateRegion(a, b, 0, 24, 1)
	s2, e2, ok2 := validateRegion(b, a, 0, 24, 1)
	if !ok1 || !ok2 {
		t.Fatalf("expected both directions valid, got ok1=%v ok2=%v", ok1, ok2)
	}
	if s1 != s2 || e1 != e2 {
		t.Fatalf("region should be independent of drag direction: (%v,%v) vs (%v,%v)", s1, e1, s2, e2)
	}
}

func TestValidateRegionShiftsByScroll(t *testing.T) {
	start, end, ok := validateRegion(geom.Point{Row: 0}, geom.Point{Row: 1}, 10, 24, 1)
	if !ok {
		t.Fatal("expected region to validate")
	}
	if start.Row != 10 || end.Row != 11 {
		t.Fatalf("scroll offset not applied: start=%v end=%v", start, end)
	}
}

func TestValidateRegionRejectsInputArea(t *testing.T) {
	// viewport_h=24, input_lines=1 -> boundary at position+24-1-3 = position+20
	_, _, ok := validateRegion(geom.Point{Row: 21}, geom.Point{Row: 22}, 0, 24, 1)
	if ok {
		t.Fatal("region starting inside the input rows should be rejected")
	}
}
