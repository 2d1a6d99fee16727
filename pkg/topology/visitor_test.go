package topology

import (
	"math"
	"testing"

	"dgsurface/pkg/kspace"
)

type heightFunctor struct {
	ks   *kspace.KSpace
	axis int
}

func (f heightFunctor) Value(s kspace.SCell) float64 { return f.ks.Embed(s)[f.axis] }

type distanceFunctor struct {
	ks     *kspace.KSpace
	source []float64
}

func (f distanceFunctor) Value(s kspace.SCell) float64 {
	x := f.ks.Embed(s)
	d := 0.0
	for i := range x {
		d += (x[i] - f.source[i]) * (x[i] - f.source[i])
	}
	return math.Sqrt(d)
}

func TestDistanceVisitorOrder(t *testing.T) {
	ks := newSpace(t, 3, kspace.Pt(0, 0, 0), kspace.Pt(9, 9, 9))
	pred := box(3, kspace.Pt(2, 2, 2), kspace.Pt(5, 6, 4))
	adj := NewSurfelAdjacency(3, true)
	seed := ks.Bel(kspace.Pt(3, 4, 2), 2, false)

	surface, err := NewImplicitSurface(ks, pred, adj, seed)
	if err != nil {
		t.Fatalf("NewImplicitSurface failed: %v", err)
	}
	functor := heightFunctor{ks: ks, axis: 2}
	v := NewDistanceVisitor(surface, functor, seed)

	if v.Started() || v.Finished() {
		t.Fatal("A new visitor should be neither started nor finished")
	}

	visited := kspace.NewSCellSet()
	last := math.Inf(-1)
	first := true
	for !v.Finished() {
		node := v.Expand()
		if first && node.Surfel != seed {
			t.Errorf("Expected the seed first, got %v", node.Surfel)
		}
		first = false
		if cur := v.Current(); cur != node {
			t.Errorf("Current() = %v, Expand() returned %v", cur, node)
		}
		if node.Distance != functor.Value(node.Surfel) {
			t.Errorf("Node %v carries %v instead of its functor value", node.Surfel, node.Distance)
		}
		if node.Distance < last {
			t.Errorf("Distance decreased from %v to %v at %v", last, node.Distance, node.Surfel)
		}
		last = node.Distance
		if !visited.Add(node.Surfel) {
			t.Errorf("Surfel %v visited twice", node.Surfel)
		}
	}

	tracked := trackFrom(t, ks, pred, true, seed)
	if !visited.Equal(tracked) {
		t.Errorf("Visitor saw %d surfels, tracker %d", visited.Len(), tracked.Len())
	}
	if v.Visited() != tracked.Len() {
		t.Errorf("Visited() = %d, expected %d", v.Visited(), tracked.Len())
	}
	if last != 4.5 {
		t.Errorf("Expected the top face last at height 4.5, got %v", last)
	}
}

// TestDistanceVisitorSameSet checks on balls that the visitor reaches the
// same component as the tracker under both policies. Only the sets are
// compared: on the larger balls the distance from the bel has local minima
// on the surface, so the visiting order is not monotone there.
func TestDistanceVisitorSameSet(t *testing.T) {
	ks := newSpace(t, 3, kspace.Pt(0, 0, 0), kspace.Pt(17, 17, 17))
	for _, r2 := range []int{14, 30, 50} {
		pred := ball(3, kspace.Pt(8, 8, 8), r2)
		bel, err := FindABel(ks, pred, 1000)
		if err != nil {
			t.Fatalf("r2=%d: FindABel failed: %v", r2, err)
		}

		for _, interior := range []bool{true, false} {
			surface, err := NewImplicitSurface(ks, pred, NewSurfelAdjacency(3, interior), bel)
			if err != nil {
				t.Fatalf("NewImplicitSurface failed: %v", err)
			}
			source := ks.Embed(bel)
			v := NewDistanceVisitor(surface, distanceFunctor{ks: ks, source: source}, bel)

			visited := kspace.NewSCellSet()
			maxDist := 0.0
			v.Drain(func(n Node) bool {
				if !visited.Add(n.Surfel) {
					t.Errorf("r2=%d interior=%v: surfel %v visited twice", r2, interior, n.Surfel)
				}
				maxDist = math.Max(maxDist, n.Distance)
				return true
			})
			if !visited.Equal(trackFrom(t, ks, pred, interior, bel)) {
				t.Errorf("r2=%d interior=%v: visitor and tracker disagree", r2, interior)
			}
			if v.Current().Distance > maxDist || maxDist == 0 {
				t.Errorf("r2=%d interior=%v: unexpected distances, max %v", r2, interior, maxDist)
			}
		}
	}
}

// TestDistanceVisitorPremarked verifies that surfels held by a given marker
// are neither returned nor crossed
func TestDistanceVisitorPremarked(t *testing.T) {
	ks := newSpace(t, 2, kspace.Pt(0, 0), kspace.Pt(4, 4))
	pix := kspace.Pt(2, 2)
	pred := points(2, pix)
	seed := ks.Bel(pix, 0, true)
	surface, err := NewImplicitSurface(ks, pred, NewSurfelAdjacency(2, true), seed)
	if err != nil {
		t.Fatalf("NewImplicitSurface failed: %v", err)
	}
	functor := heightFunctor{ks: ks, axis: 0}

	t.Run("Seed", func(t *testing.T) {
		m := NewMemoryMarker()
		m.TryAdd(seed)
		v := NewDistanceVisitor(surface, functor, seed, WithMarker(m))
		if !v.Finished() {
			t.Errorf("A visitor with a marked seed should start finished, got %v", v.Expand())
		}
	})

	t.Run("Neighbour", func(t *testing.T) {
		marked := ks.Bel(pix, 1, true)
		m := NewMemoryMarker()
		m.TryAdd(marked)
		v := NewDistanceVisitor(surface, functor, seed, WithMarker(m))
		count := 0
		v.Drain(func(n Node) bool {
			if n.Surfel == marked {
				t.Errorf("Marked surfel %v was visited", marked)
			}
			count++
			return true
		})
		if count != 3 || v.Visited() != 4 {
			t.Errorf("Expected 3 new surfels and 4 marked, got %d and %d", count, v.Visited())
		}
	})
}

func TestDistanceVisitorStop(t *testing.T) {
	ks := newSpace(t, 2, kspace.Pt(0, 0), kspace.Pt(9, 9))
	pred := box(2, kspace.Pt(2, 2), kspace.Pt(6, 6))
	seed := ks.Bel(kspace.Pt(6, 4), 0, true)
	surface, err := NewImplicitSurface(ks, pred, NewSurfelAdjacency(2, true), seed)
	if err != nil {
		t.Fatalf("NewImplicitSurface failed: %v", err)
	}
	v := NewDistanceVisitor(surface, heightFunctor{ks: ks, axis: 1}, seed)

	count := 0
	v.Drain(func(Node) bool {
		count++
		return count < 5
	})
	if count != 5 || v.Visited() != 5 {
		t.Errorf("Expected 5 visited surfels, got %d (Visited %d)", count, v.Visited())
	}
	if v.Finished() {
		t.Error("The visitor should not be finished after an early stop")
	}
}

func TestDistanceVisitorPanics(t *testing.T) {
	ks := newSpace(t, 2, kspace.Pt(0, 0), kspace.Pt(4, 4))
	pix := kspace.Pt(2, 2)
	seed := ks.Bel(pix, 0, true)
	surface, err := NewImplicitSurface(ks, points(2, pix), NewSurfelAdjacency(2, true), seed)
	if err != nil {
		t.Fatalf("NewImplicitSurface failed: %v", err)
	}
	v := NewDistanceVisitor(surface, heightFunctor{ks: ks, axis: 0}, seed)

	t.Run("CurrentBeforeExpand", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected a panic from Current before Expand")
			}
		}()
		v.Current()
	})

	for !v.Finished() {
		v.Expand()
	}
	if v.Visited() != 4 {
		t.Errorf("Expected 4 surfels around a pixel, got %d", v.Visited())
	}

	t.Run("ExpandWhenFinished", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected a panic from Expand on a finished visitor")
			}
		}()
		v.Expand()
	})
}
