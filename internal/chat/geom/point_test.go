package geom

import "testing"

func TestMinMaxOrdering(t *testing.T) {
	cases := []struct{ p, q Point }{
		{Point{Col: 4, Row: 1}, Point{Col: 20, Row: 2}},
		{Point{Col: 20, Row: 2}, Point{Col: 4, Row: 1}},
		{Point{Col: 5, Row: 0}, Point{Col: 2, Row: 0}},
		{Point{Col: 3, Row: 3}, Point{Col: 3, Row: 3}},
	}
	for _, c := range cases {
		lo, hi := Min(c.p, c.q), Max(c.p, c.q)
		if hi.Less(lo) {
			t.Fatalf("Min/Max not ordered for %+v, %+v: lo=%+v hi=%+v", c.p, c.q, lo, hi)
		}
	}
}

func TestShiftRowPreservesOrder(t *testing.T) {
	p := Point{Col: 1, Row: 0}
	q := Point{Col: 0, Row: 1}
	if !p.Less(q) {
		t.Fatal("precondition: p should sort before q")
	}
	if !p.ShiftRow(5).Less(q.ShiftRow(5)) {
		t.Fatal("ShiftRow should preserve relative order")
	}
}

func TestShiftRow(t *testing.T) {
	p := Point{Col: 3, Row: 2}
	got := p.ShiftRow(4)
	want := Point{Col: 3, Row: 6}
	if got != want {
		t.Fatalf("ShiftRow(4) = %+v, want %+v", got, want)
	}
}
