// Package kspace models a bounded n-dimensional Khalimsky (cubical) cellular
// grid space. Cells of every dimension are addressed by integer Khalimsky
// coordinates whose parity tells the cell topology along each axis: an odd
// coordinate is open (the cell spans a unit interval along that axis), an
// even coordinate is closed (the cell is reduced to a point along that axis).
//
// A spel (voxel, pixel) is open along every axis, a surfel is closed along
// exactly one axis, its orthogonal direction. The digital point p maps to the
// spel with Khalimsky coordinates 2p+1.
package kspace

import (
	"errors"
	"fmt"
)

// MaxDim is the highest dimension a KSpace can have.
const MaxDim = 4

// Orientation values of a signed cell.
const (
	Pos = true
	Neg = false
)

var (
	// ErrBadDimension is returned when a space dimension is outside [1, MaxDim].
	ErrBadDimension = errors.New("kspace: dimension out of range")

	// ErrBadBounds is returned when the lower bound exceeds the upper bound
	// along some axis.
	ErrBadBounds = errors.New("kspace: inverted or degenerate bounds")
)

// KSpace is a bounded cellular grid space. It is immutable once built and
// safe to share between goroutines.
type KSpace struct {
	dim    int
	lower  Point
	upper  Point
	klower Point
	kupper Point
	closed bool
}

// New builds a space over the digital box [lower, upper] of dimension dim.
// When closed is true the space also holds the cells lying on the outer
// border of the box, so that a shape touching the border still has a closed
// boundary.
func New(dim int, lower, upper Point, closed bool) (*KSpace, error) {
	if dim < 1 || dim > MaxDim {
		return nil, fmt.Errorf("%w: %d", ErrBadDimension, dim)
	}
	ks := &KSpace{dim: dim, closed: closed}
	for i := 0; i < dim; i++ {
		if lower[i] > upper[i] {
			return nil, fmt.Errorf("%w: axis %d has lower %d > upper %d", ErrBadBounds, i, lower[i], upper[i])
		}
		ks.lower[i] = lower[i]
		ks.upper[i] = upper[i]
		if closed {
			ks.klower[i] = 2 * lower[i]
			ks.kupper[i] = 2*upper[i] + 2
		} else {
			ks.klower[i] = 2*lower[i] + 1
			ks.kupper[i] = 2*upper[i] + 1
		}
	}
	return ks, nil
}

// Dim returns the dimension of the space.
func (ks *KSpace) Dim() int { return ks.dim }

// Lower returns the lowest digital point of the space.
func (ks *KSpace) Lower() Point { return ks.lower }

// Upper returns the highest digital point of the space.
func (ks *KSpace) Upper() Point { return ks.upper }

// Closed reports whether the space holds its border cells.
func (ks *KSpace) Closed() bool { return ks.closed }

// Size returns the number of spels along axis k.
func (ks *KSpace) Size(k int) int { return ks.upper[k] - ks.lower[k] + 1 }

// String implements fmt.Stringer.
func (ks *KSpace) String() string {
	kind := "open"
	if ks.closed {
		kind = "closed"
	}
	return fmt.Sprintf("KSpace[%dD %s %s..%s]", ks.dim, kind, ks.lower.Text(ks.dim), ks.upper.Text(ks.dim))
}

// Spel returns the unsigned spel of the digital point p.
func (ks *KSpace) Spel(p Point) Cell {
	var c Cell
	for i := 0; i < ks.dim; i++ {
		c.Coords[i] = 2*p[i] + 1
	}
	return c
}

// SSpel returns the signed spel of the digital point p.
func (ks *KSpace) SSpel(p Point, sign bool) SCell {
	return ks.Signs(ks.Spel(p), sign)
}

// Bel returns the signed surfel separating the spel inside from its
// neighbour along axis k (above it when up is true). The surfel is oriented
// so that inside is its interior spel.
func (ks *KSpace) Bel(inside Point, k int, up bool) SCell {
	s := SCell{Coords: ks.Spel(inside).Coords}
	if up {
		s.Coords[k]++
		s.Sign = Neg
	} else {
		s.Coords[k]--
		s.Sign = Pos
	}
	return s
}

// BelBetween returns the surfel between the face-adjacent digital points
// inside and outside, oriented toward inside. It panics when the points are
// not face-adjacent.
func (ks *KSpace) BelBetween(inside, outside Point) SCell {
	axis := -1
	for i := 0; i < ks.dim; i++ {
		switch d := outside[i] - inside[i]; d {
		case 0:
		case 1, -1:
			if axis >= 0 {
				panic(fmt.Sprintf("kspace: %v and %v are not face-adjacent", inside, outside))
			}
			axis = i
		default:
			panic(fmt.Sprintf("kspace: %v and %v are not face-adjacent", inside, outside))
		}
	}
	if axis < 0 {
		panic(fmt.Sprintf("kspace: %v and %v are the same point", inside, outside))
	}
	return ks.Bel(inside, axis, outside[axis] > inside[axis])
}

// Unsigns strips the orientation of s.
func (ks *KSpace) Unsigns(s SCell) Cell { return Cell{Coords: s.Coords} }

// Signs orients c.
func (ks *KSpace) Signs(c Cell, sign bool) SCell { return SCell{Coords: c.Coords, Sign: sign} }

// IsOpen reports whether c is open along axis k.
func (ks *KSpace) IsOpen(c Cell, k int) bool { return c.Coords[k]&1 == 1 }

// Dimension returns the topological dimension of c, its number of open axes.
func (ks *KSpace) Dimension(c Cell) int {
	n := 0
	for i := 0; i < ks.dim; i++ {
		if c.Coords[i]&1 == 1 {
			n++
		}
	}
	return n
}

// IsSpel reports whether c is a full-dimensional cell.
func (ks *KSpace) IsSpel(c Cell) bool { return ks.Dimension(c) == ks.dim }

// IsSurfel reports whether c has codimension one.
func (ks *KSpace) IsSurfel(c Cell) bool { return ks.Dimension(c) == ks.dim-1 }

// OrthDir returns the orthogonal direction of the surfel s, its only closed
// axis. It panics when s is not a surfel.
func (ks *KSpace) OrthDir(s SCell) int {
	if !ks.IsSurfel(ks.Unsigns(s)) {
		panic(fmt.Sprintf("kspace: %v is not a surfel", s))
	}
	for i := 0; i < ks.dim; i++ {
		if s.Coords[i]&1 == 0 {
			return i
		}
	}
	return -1
}

// IsInside reports whether c lies within the bounds of the space.
func (ks *KSpace) IsInside(c Cell) bool {
	for i := 0; i < ks.dim; i++ {
		if c.Coords[i] < ks.klower[i] || c.Coords[i] > ks.kupper[i] {
			return false
		}
	}
	return true
}

// IsInsidePoint reports whether the digital point p lies within the space.
func (ks *KSpace) IsInsidePoint(p Point) bool {
	for i := 0; i < ks.dim; i++ {
		if p[i] < ks.lower[i] || p[i] > ks.upper[i] {
			return false
		}
	}
	return true
}

// CellPoint returns the digital point of c, the lowest digital point of the
// spels incident to it. For a spel this is its own point.
func (ks *KSpace) CellPoint(c Cell) Point {
	var p Point
	for i := 0; i < ks.dim; i++ {
		p[i] = c.Coords[i] >> 1
	}
	return p
}

// Neighbor returns the cell with the same topology next to c along axis k.
func (ks *KSpace) Neighbor(c Cell, k int, up bool) Cell {
	if up {
		c.Coords[k] += 2
	} else {
		c.Coords[k] -= 2
	}
	return c
}

// Incident returns the cell incident to c along axis k: one dimension lower
// when c is open along k, one dimension higher otherwise.
func (ks *KSpace) Incident(c Cell, k int, up bool) Cell {
	if up {
		c.Coords[k]++
	} else {
		c.Coords[k]--
	}
	return c
}

// IncidentSpels returns the two spels sharing the surfel s, lower one first.
func (ks *KSpace) IncidentSpels(s SCell) (low, high Cell) {
	k := ks.OrthDir(s)
	c := ks.Unsigns(s)
	return ks.Incident(c, k, false), ks.Incident(c, k, true)
}

// DirectIncident returns the interior spel of the bel s.
func (ks *KSpace) DirectIncident(s SCell) Cell {
	low, high := ks.IncidentSpels(s)
	if s.Sign == Pos {
		return high
	}
	return low
}

// IndirectIncident returns the exterior spel of the bel s.
func (ks *KSpace) IndirectIncident(s SCell) Cell {
	low, high := ks.IncidentSpels(s)
	if s.Sign == Pos {
		return low
	}
	return high
}

// InteriorPoint returns the digital point of the interior spel of s.
func (ks *KSpace) InteriorPoint(s SCell) Point { return ks.CellPoint(ks.DirectIncident(s)) }

// ExteriorPoint returns the digital point of the exterior spel of s.
func (ks *KSpace) ExteriorPoint(s SCell) Point { return ks.CellPoint(ks.IndirectIncident(s)) }

// Embed maps s to its canonic position in R^n: Khalimsky coordinate k goes
// to (k-1)/2, which puts a spel at its digital point and a surfel at the
// centre of the face it represents.
func (ks *KSpace) Embed(s SCell) []float64 {
	x := make([]float64, ks.dim)
	for i := range x {
		x[i] = float64(s.Coords[i]-1) / 2
	}
	return x
}
