// Package topology extracts digital surfaces from a membership predicate over
// a Khalimsky space. It finds boundary elements (bels), enumerates the bels
// adjacent to a given one under a surfel adjacency policy, tracks whole
// boundary components and visits them in order of a vertex functor.
//
// The surface graph is never materialised: adjacency is derived on demand
// from the predicate, and only the traversal frontier and the visited set
// are stored.
package topology

import (
	"errors"
	"fmt"

	"dgsurface/pkg/kspace"
)

const maxDim = kspace.MaxDim

var (
	// ErrBelNotFound is returned when no boundary element could be found
	// within the trial budget.
	ErrBelNotFound = errors.New("topology: no boundary element found")

	// ErrNotABel is returned when a surfel given as seed does not separate an
	// inside spel from an outside one.
	ErrNotABel = errors.New("topology: surfel is not a boundary element")

	// ErrDimensionMismatch is returned when the space and the adjacency
	// policy disagree on the dimension.
	ErrDimensionMismatch = errors.New("topology: dimension mismatch")
)

// Predicate tells whether a digital point belongs to the shape. It must stay
// unchanged while a traversal uses it.
type Predicate interface {
	Inside(p kspace.Point) bool
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(p kspace.Point) bool

// Inside implements Predicate.
func (f PredicateFunc) Inside(p kspace.Point) bool { return f(p) }

// insideSpace evaluates pred on p, treating points outside ks as outside the
// shape.
func insideSpace(ks *kspace.KSpace, pred Predicate, p kspace.Point) bool {
	return ks.IsInsidePoint(p) && pred.Inside(p)
}

// IsBel reports whether s is a surfel of ks whose interior spel is inside the
// shape and whose exterior spel is outside.
func IsBel(ks *kspace.KSpace, pred Predicate, s kspace.SCell) bool {
	if !ks.IsSurfel(ks.Unsigns(s)) || !ks.IsInside(ks.Unsigns(s)) {
		return false
	}
	return insideSpace(ks, pred, ks.InteriorPoint(s)) && !insideSpace(ks, pred, ks.ExteriorPoint(s))
}

// ImplicitSurface is the boundary component of a predicate that contains a
// given seed bel. The space and the predicate are borrowed and must outlive
// the surface; neither is modified.
type ImplicitSurface struct {
	space *kspace.KSpace
	pred  Predicate
	adj   *SurfelAdjacency
	seed  kspace.SCell
}

// NewImplicitSurface returns the surface of pred in ks through seed.
func NewImplicitSurface(ks *kspace.KSpace, pred Predicate, adj *SurfelAdjacency, seed kspace.SCell) (*ImplicitSurface, error) {
	if adj.Dim() != ks.Dim() {
		return nil, fmt.Errorf("%w: space is %dD, adjacency is %dD", ErrDimensionMismatch, ks.Dim(), adj.Dim())
	}
	if !IsBel(ks, pred, seed) {
		return nil, fmt.Errorf("%w: %v", ErrNotABel, seed)
	}
	return &ImplicitSurface{space: ks, pred: pred, adj: adj, seed: seed}, nil
}

// Space returns the cellular grid space.
func (s *ImplicitSurface) Space() *kspace.KSpace { return s.space }

// Predicate returns the membership predicate.
func (s *ImplicitSurface) Predicate() Predicate { return s.pred }

// Adjacency returns the surfel adjacency policy.
func (s *ImplicitSurface) Adjacency() *SurfelAdjacency { return s.adj }

// Seed returns the bel the surface was built from.
func (s *ImplicitSurface) Seed() kspace.SCell { return s.seed }

// IsBel reports whether b is a bel of the predicate.
func (s *ImplicitSurface) IsBel(b kspace.SCell) bool { return IsBel(s.space, s.pred, b) }

// WriteNeighbors appends to dst the bels adjacent to b and returns the
// extended slice. Track directions are taken in increasing order, each with
// the negative then the positive increment, so the result only depends on b,
// the predicate and the adjacency policy.
func (s *ImplicitSurface) WriteNeighbors(dst []kspace.SCell, b kspace.SCell) []kspace.SCell {
	var n Neighborhood
	n.Init(s.space, s.pred, s.adj)
	n.SetSurfel(b)
	for j := 0; j < s.space.Dim(); j++ {
		if j == n.orth {
			continue
		}
		dst = n.appendAdjacent(dst, j)
	}
	return dst
}

// WriteNeighborsInDirection appends to dst the bels adjacent to b along the
// track direction trackDir, the negative increment first.
func (s *ImplicitSurface) WriteNeighborsInDirection(dst []kspace.SCell, b kspace.SCell, trackDir int) []kspace.SCell {
	var n Neighborhood
	n.Init(s.space, s.pred, s.adj)
	n.SetSurfel(b)
	if trackDir == n.orth {
		return dst
	}
	return n.appendAdjacent(dst, trackDir)
}

// Degree returns the number of bels adjacent to b.
func (s *ImplicitSurface) Degree(b kspace.SCell) int {
	var buf [2 * (maxDim - 1)]kspace.SCell
	return len(s.WriteNeighbors(buf[:0], b))
}
