package topology

import (
	"dgsurface/pkg/kspace"
)

// Neighborhood holds the local geometry around one bel: its orthogonal
// direction and its interior and exterior spels. Around the edge shared with
// the next surfel along a track direction lie four spels, the interior and
// exterior ones and their two neighbours along that direction. Exactly one of
// three surfels continues the boundary there:
//
//   - the interior follower, between the interior spel and its neighbour,
//   - the straight follower, parallel to the bel,
//   - the exterior follower, between the exterior spel and its neighbour.
//
// When the two neighbouring spels are respectively outside and inside, both
// the interior and exterior followers are bels; the adjacency policy picks
// one.
type Neighborhood struct {
	space *kspace.KSpace
	pred  Predicate
	adj   *SurfelAdjacency

	surfel kspace.SCell
	orth   int
	in     kspace.Point // Khalimsky coordinates of the interior spel
	out    kspace.Point // Khalimsky coordinates of the exterior spel
}

// Init attaches the neighborhood to a space, a predicate and a policy.
func (n *Neighborhood) Init(ks *kspace.KSpace, pred Predicate, adj *SurfelAdjacency) {
	n.space = ks
	n.pred = pred
	n.adj = adj
}

// SetSurfel moves the neighborhood to the bel b.
func (n *Neighborhood) SetSurfel(b kspace.SCell) {
	n.surfel = b
	n.orth = n.space.OrthDir(b)
	n.in = n.space.DirectIncident(b).Coords
	n.out = n.space.IndirectIncident(b).Coords
}

// Surfel returns the current bel.
func (n *Neighborhood) Surfel() kspace.SCell { return n.surfel }

// OrthDir returns the orthogonal direction of the current bel.
func (n *Neighborhood) OrthDir() int { return n.orth }

func (n *Neighborhood) isInside(kcoords kspace.Point) bool {
	c := kspace.Cell{Coords: kcoords}
	if !n.space.IsInside(c) {
		return false
	}
	return n.pred.Inside(n.space.CellPoint(c))
}

// InteriorFollower returns the surfel between the interior spel and its
// neighbour along trackDir, oriented toward the interior spel.
func (n *Neighborhood) InteriorFollower(trackDir int, up bool) kspace.SCell {
	s := kspace.SCell{Coords: n.in}
	if up {
		s.Coords[trackDir]++
		s.Sign = kspace.Neg
	} else {
		s.Coords[trackDir]--
		s.Sign = kspace.Pos
	}
	return s
}

// StraightFollower returns the surfel parallel to the current bel along
// trackDir, with the same orientation.
func (n *Neighborhood) StraightFollower(trackDir int, up bool) kspace.SCell {
	s := n.surfel
	if up {
		s.Coords[trackDir] += 2
	} else {
		s.Coords[trackDir] -= 2
	}
	return s
}

// ExteriorFollower returns the surfel between the exterior spel and its
// neighbour along trackDir, oriented toward that neighbour.
func (n *Neighborhood) ExteriorFollower(trackDir int, up bool) kspace.SCell {
	s := kspace.SCell{Coords: n.out}
	if up {
		s.Coords[trackDir]++
		s.Sign = kspace.Pos
	} else {
		s.Coords[trackDir]--
		s.Sign = kspace.Neg
	}
	return s
}

// Adjacent returns the bel following the current one along trackDir in the
// given increment. The second result is false when that bel falls outside
// the space, which only happens in an open space.
func (n *Neighborhood) Adjacent(trackDir int, up bool) (kspace.SCell, bool) {
	step := -2
	if up {
		step = 2
	}
	inNext := n.in
	inNext[trackDir] += step
	outNext := n.out
	outNext[trackDir] += step

	var s kspace.SCell
	if n.adj.Adjacency(n.orth, trackDir) {
		switch {
		case !n.isInside(inNext):
			s = n.InteriorFollower(trackDir, up)
		case !n.isInside(outNext):
			s = n.StraightFollower(trackDir, up)
		default:
			s = n.ExteriorFollower(trackDir, up)
		}
	} else {
		switch {
		case n.isInside(outNext):
			s = n.ExteriorFollower(trackDir, up)
		case n.isInside(inNext):
			s = n.StraightFollower(trackDir, up)
		default:
			s = n.InteriorFollower(trackDir, up)
		}
	}
	if !n.space.IsInside(n.space.Unsigns(s)) {
		return s, false
	}
	return s, true
}

func (n *Neighborhood) appendAdjacent(dst []kspace.SCell, trackDir int) []kspace.SCell {
	if s, ok := n.Adjacent(trackDir, false); ok {
		dst = append(dst, s)
	}
	if s, ok := n.Adjacent(trackDir, true); ok {
		dst = append(dst, s)
	}
	return dst
}
