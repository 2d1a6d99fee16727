package topology

import (
	"dgsurface/internal/trace"
	"dgsurface/pkg/kspace"
)

// TrackSurface visits every bel of the component of surface that contains its
// seed, each exactly once, and returns how many were visited. The frontier is
// expanded in FIFO order, but callers must not rely on any order. Returning
// false from visit stops the traversal.
//
// Nothing bounds the traversal: a predicate whose boundary never closes
// inside the space keeps it running until the space is exhausted.
func TrackSurface(surface *ImplicitSurface, visit func(kspace.SCell) bool, opts ...Option) int {
	o := buildOptions(opts)
	marker := o.marker

	queue := []kspace.SCell{surface.Seed()}
	var neighbors []kspace.SCell
	count := 0
	for head := 0; head < len(queue); head++ {
		s := queue[head]
		if !marker.TryAdd(s) {
			continue
		}
		count++
		if !visit(s) {
			break
		}
		neighbors = surface.WriteNeighbors(neighbors[:0], s)
		for _, n := range neighbors {
			if !marker.Contains(n) {
				queue = append(queue, n)
			}
		}
		// Drop the consumed prefix once it dominates the backing array.
		if head > 1024 && head > len(queue)/2 {
			queue = append(queue[:0], queue[head+1:]...)
			head = -1
		}
	}
	trace.Logger().Debug("tracked surface", "seed", surface.Seed(), "surfels", count)
	return count
}

// TrackBoundary returns the set of bels of pred connected to bel under adj.
func TrackBoundary(ks *kspace.KSpace, adj *SurfelAdjacency, pred Predicate, bel kspace.SCell, opts ...Option) (*kspace.SCellSet, error) {
	surface, err := NewImplicitSurface(ks, pred, adj, bel)
	if err != nil {
		return nil, err
	}
	boundary := kspace.NewSCellSet()
	TrackSurface(surface, func(s kspace.SCell) bool {
		boundary.Add(s)
		return true
	}, opts...)
	return boundary, nil
}

// MakeBoundary returns every bel of pred in ks by scanning all spels of the
// domain, whatever component they belong to.
func MakeBoundary(ks *kspace.KSpace, pred Predicate) *kspace.SCellSet {
	boundary := kspace.NewSCellSet()
	dim := ks.Dim()
	lower, upper := ks.Lower(), ks.Upper()
	p := lower
	for {
		if pred.Inside(p) {
			for k := 0; k < dim; k++ {
				for _, up := range []bool{false, true} {
					q := p
					if up {
						q[k]++
					} else {
						q[k]--
					}
					if insideSpace(ks, pred, q) {
						continue
					}
					bel := ks.Bel(p, k, up)
					if ks.IsInside(ks.Unsigns(bel)) {
						boundary.Add(bel)
					}
				}
			}
		}
		// Odometer increment over the domain.
		k := 0
		for ; k < dim; k++ {
			if p[k] < upper[k] {
				p[k]++
				break
			}
			p[k] = lower[k]
		}
		if k == dim {
			return boundary
		}
	}
}
