package functors

import (
	"math"
	"testing"

	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

func newSpace(t *testing.T) *kspace.KSpace {
	t.Helper()
	ks, err := kspace.New(3, kspace.Pt(0, 0, 0), kspace.Pt(9, 9, 9), true)
	if err != nil {
		t.Fatalf("kspace.New failed: %v", err)
	}
	return ks
}

func TestEmbedders(t *testing.T) {
	ks := newSpace(t)
	bel := ks.Bel(kspace.Pt(2, 3, 4), 0, true)

	got := CanonicEmbedder{Space: ks}.Embed(bel)
	want := RealPoint{2.5, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Canonic embedding: expected %v, got %v", want, got)
			break
		}
	}

	scaled := ScaledEmbedder{Space: ks, Step: 0.5}.Embed(bel)
	for i := range want {
		if scaled[i] != want[i]*0.5 {
			t.Errorf("Scaled embedding: expected %v scaled by 0.5, got %v", want, scaled)
			break
		}
	}
}

func TestDistanceFunctors(t *testing.T) {
	ks := newSpace(t)
	seed := ks.Bel(kspace.Pt(2, 2, 2), 2, false)
	f := DistanceFrom(ks, seed)

	if d := f.Value(seed); d != 0 {
		t.Errorf("Distance from the seed to itself should be 0, got %v", d)
	}

	other := ks.Bel(kspace.Pt(5, 6, 2), 2, false)
	if d := f.Value(other); math.Abs(d-5) > 1e-12 {
		t.Errorf("Expected distance 5, got %v", d)
	}

	manhattan := DistanceToPoint{
		Distance: func(a, b RealPoint) float64 {
			s := 0.0
			for i := range a {
				s += math.Abs(a[i] - b[i])
			}
			return s
		},
		Origin: RealPoint{0, 0, 0},
	}
	if d := Compose(CanonicEmbedder{Space: ks}, manhattan).Value(other); d != 5+6+1.5 {
		t.Errorf("Expected L1 distance 12.5, got %v", d)
	}

	if d := EuclideanDistance(RealPoint{0, 0}, RealPoint{3, 4}); d != 5 {
		t.Errorf("Expected 5, got %v", d)
	}
}

func TestSimpleFunctors(t *testing.T) {
	ks := newSpace(t)
	s := ks.Bel(kspace.Pt(1, 2, 3), 1, true)

	if v := Constant(7).Value(s); v != 7 {
		t.Errorf("Constant: expected 7, got %v", v)
	}
	if v := (Height{Space: ks, Axis: 1}).Value(s); v != 2.5 {
		t.Errorf("Height: expected 2.5, got %v", v)
	}
	if v := VertexFunc(func(kspace.SCell) float64 { return -1 }).Value(s); v != -1 {
		t.Errorf("VertexFunc: expected -1, got %v", v)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for an axis out of range")
		}
	}()
	Height{Space: ks, Axis: 3}.Value(s)
}

// TestConstantVisitor runs a visitor with a constant functor, which must
// still reach the whole component.
func TestConstantVisitor(t *testing.T) {
	ks := newSpace(t)
	pred := topology.PredicateFunc(func(p kspace.Point) bool {
		return p[0] >= 2 && p[0] <= 4 && p[1] >= 2 && p[1] <= 4 && p[2] >= 2 && p[2] <= 4
	})
	seed := ks.Bel(kspace.Pt(4, 3, 3), 0, true)
	surface, err := topology.NewImplicitSurface(ks, pred, topology.NewSurfelAdjacency(3, true), seed)
	if err != nil {
		t.Fatalf("NewImplicitSurface failed: %v", err)
	}
	v := topology.NewDistanceVisitor(surface, Constant(0), seed)
	n := 0
	v.Drain(func(node topology.Node) bool {
		n++
		return true
	})
	if n != 54 {
		t.Errorf("Expected 54 surfels, got %d", n)
	}
}
