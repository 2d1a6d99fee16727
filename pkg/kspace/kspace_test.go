package kspace

import (
	"errors"
	"testing"
)

func newSpace(t *testing.T, dim int, lower, upper Point, closed bool) *KSpace {
	t.Helper()
	ks, err := New(dim, lower, upper, closed)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ks
}

// TestNew checks the bound validation of a space.
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		lower   Point
		upper   Point
		wantErr error
	}{
		{"cube", 3, Pt(0, 0, 0), Pt(9, 9, 9), nil},
		{"single spel", 3, Pt(2, 2, 2), Pt(2, 2, 2), nil},
		{"negative bounds", 2, Pt(-5, -3), Pt(-1, 4), nil},
		{"inverted", 3, Pt(0, 5, 0), Pt(9, 4, 9), ErrBadBounds},
		{"zero dimension", 0, Pt(), Pt(), ErrBadDimension},
		{"too many dimensions", MaxDim + 1, Pt(), Pt(), ErrBadDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks, err := New(tt.dim, tt.lower, tt.upper, true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if ks.Dim() != tt.dim {
				t.Errorf("Expected dimension %d, got %d", tt.dim, ks.Dim())
			}
		})
	}
}

// TestCellTopology checks the parity encoding of spels and surfels.
func TestCellTopology(t *testing.T) {
	ks := newSpace(t, 3, Pt(0, 0, 0), Pt(4, 4, 4), true)

	spel := ks.Spel(Pt(1, 2, 3))
	if spel.Coords != Pt(3, 5, 7) {
		t.Errorf("Unexpected spel coordinates %v", spel.Coords)
	}
	if !ks.IsSpel(spel) || ks.IsSurfel(spel) {
		t.Errorf("Expected %v to be a spel", spel)
	}
	if ks.CellPoint(spel) != Pt(1, 2, 3) {
		t.Errorf("Expected point (1,2,3), got %v", ks.CellPoint(spel))
	}

	bel := ks.Bel(Pt(1, 2, 3), 2, true)
	if !ks.IsSurfel(ks.Unsigns(bel)) {
		t.Fatalf("Expected %v to be a surfel", bel)
	}
	if ks.OrthDir(bel) != 2 {
		t.Errorf("Expected orthogonal direction 2, got %d", ks.OrthDir(bel))
	}
	if ks.InteriorPoint(bel) != Pt(1, 2, 3) {
		t.Errorf("Expected interior (1,2,3), got %v", ks.InteriorPoint(bel))
	}
	if ks.ExteriorPoint(bel) != Pt(1, 2, 4) {
		t.Errorf("Expected exterior (1,2,4), got %v", ks.ExteriorPoint(bel))
	}

	flipped := Opposite(bel)
	if ks.InteriorPoint(flipped) != Pt(1, 2, 4) {
		t.Errorf("Opposite bel should swap interior and exterior, got %v", ks.InteriorPoint(flipped))
	}

	pointel := Cell{Coords: Pt(2, 4, 6)}
	if ks.Dimension(pointel) != 0 {
		t.Errorf("Expected a pointel of dimension 0, got %d", ks.Dimension(pointel))
	}
}

// TestBelBetween checks the orientation of bels built from two points.
func TestBelBetween(t *testing.T) {
	ks := newSpace(t, 2, Pt(0, 0), Pt(5, 5), true)

	for _, tc := range []struct{ in, out Point }{
		{Pt(2, 2), Pt(3, 2)},
		{Pt(2, 2), Pt(1, 2)},
		{Pt(2, 2), Pt(2, 3)},
		{Pt(2, 2), Pt(2, 1)},
	} {
		bel := ks.BelBetween(tc.in, tc.out)
		if ks.InteriorPoint(bel) != tc.in || ks.ExteriorPoint(bel) != tc.out {
			t.Errorf("Bel %v between %v and %v has interior %v and exterior %v",
				bel, tc.in, tc.out, ks.InteriorPoint(bel), ks.ExteriorPoint(bel))
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for diagonal points")
		}
	}()
	ks.BelBetween(Pt(0, 0), Pt(1, 1))
}

// TestIsInside checks closed and open bounds.
func TestIsInside(t *testing.T) {
	closed := newSpace(t, 3, Pt(0, 0, 0), Pt(2, 2, 2), true)
	open := newSpace(t, 3, Pt(0, 0, 0), Pt(2, 2, 2), false)

	border := closed.Bel(Pt(2, 1, 1), 0, true)
	if !closed.IsInside(closed.Unsigns(border)) {
		t.Errorf("Closed space should hold border surfel %v", border)
	}
	if open.IsInside(open.Unsigns(border)) {
		t.Errorf("Open space should not hold border surfel %v", border)
	}
	if closed.IsInsidePoint(Pt(3, 0, 0)) {
		t.Error("Point (3,0,0) lies outside the domain")
	}
	if !closed.IsInsidePoint(Pt(2, 2, 2)) {
		t.Error("Point (2,2,2) lies inside the domain")
	}
}

// TestEmbed checks the canonic embedding.
func TestEmbed(t *testing.T) {
	ks := newSpace(t, 3, Pt(0, 0, 0), Pt(4, 4, 4), true)

	spel := ks.SSpel(Pt(1, 2, 3), Pos)
	x := ks.Embed(spel)
	want := []float64{1, 2, 3}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, x)
		}
	}

	bel := ks.Bel(Pt(1, 2, 3), 0, false)
	x = ks.Embed(bel)
	want = []float64{0.5, 2, 3}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, x)
		}
	}
}

// TestSCellSet checks the ordered set semantics.
func TestSCellSet(t *testing.T) {
	ks := newSpace(t, 2, Pt(0, 0), Pt(3, 3), true)
	a := ks.Bel(Pt(1, 1), 0, true)
	b := ks.Bel(Pt(1, 1), 1, true)
	c := Opposite(a)

	set := NewSCellSet()
	if !set.Add(b) || !set.Add(a) || !set.Add(c) {
		t.Fatal("Adding new cells should report true")
	}
	if set.Add(a) {
		t.Error("Adding a present cell should report false")
	}
	if set.Len() != 3 {
		t.Errorf("Expected 3 cells, got %d", set.Len())
	}

	values := set.Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Compare(values[i]) >= 0 {
			t.Errorf("Values are not ordered: %v", values)
		}
	}

	other := NewSCellSet(c, b, a)
	if !set.Equal(other) {
		t.Error("Sets with the same cells should be equal")
	}
	other.Add(ks.Bel(Pt(0, 0), 0, false))
	if set.Equal(other) {
		t.Error("Sets with different sizes should differ")
	}
}

func TestText(t *testing.T) {
	p := Pt(-1, 2, 3)
	if got := p.Text(3); got != "(-1,2,3)" {
		t.Errorf("Expected (-1,2,3), got %s", got)
	}
	if got := p.Text(2); got != "(-1,2)" {
		t.Errorf("Expected (-1,2), got %s", got)
	}
	ks := newSpace(t, 2, Pt(0, 0), Pt(4, 5), true)
	if got := ks.String(); got != "KSpace[2D closed (0,0)..(4,5)]" {
		t.Errorf("Unexpected space string %s", got)
	}
}
