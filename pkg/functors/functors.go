// Package functors builds the scalar functions a distance visitor orders
// surfels by. A vertex functor is usually composed of an embedder, which maps
// a surfel to a point of R^n, and a point functor evaluated at that point.
package functors

import (
	"gonum.org/v1/gonum/floats"

	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

// RealPoint is a point of R^n.
type RealPoint []float64

// VertexFunc adapts a function to topology.VertexFunctor.
type VertexFunc func(s kspace.SCell) float64

// Value implements topology.VertexFunctor.
func (f VertexFunc) Value(s kspace.SCell) float64 { return f(s) }

// Embedder maps a cell to R^n.
type Embedder interface {
	Embed(s kspace.SCell) RealPoint
}

// CanonicEmbedder places a cell at the centre of the unit cube, square or
// interval it represents, a spel landing on its digital point.
type CanonicEmbedder struct {
	Space *kspace.KSpace
}

// Embed implements Embedder.
func (e CanonicEmbedder) Embed(s kspace.SCell) RealPoint { return e.Space.Embed(s) }

// ScaledEmbedder multiplies the canonic embedding by a grid step, mapping
// cells to the coordinates of the continuous shape they were digitised from.
type ScaledEmbedder struct {
	Space *kspace.KSpace
	Step  float64
}

// Embed implements Embedder.
func (e ScaledEmbedder) Embed(s kspace.SCell) RealPoint {
	x := e.Space.Embed(s)
	floats.Scale(e.Step, x)
	return x
}

// PointFunctor is a scalar function on R^n.
type PointFunctor interface {
	At(p RealPoint) float64
}

// PointFunc adapts a function to PointFunctor.
type PointFunc func(p RealPoint) float64

// At implements PointFunctor.
func (f PointFunc) At(p RealPoint) float64 { return f(p) }

// EuclideanDistance returns the L2 distance between a and b, which must have
// the same length.
func EuclideanDistance(a, b RealPoint) float64 { return floats.Distance(a, b, 2) }

// DistanceToPoint fixes the first argument of a distance.
type DistanceToPoint struct {
	Distance func(a, b RealPoint) float64
	Origin   RealPoint
}

// NewDistanceToPoint returns the Euclidean distance to origin.
func NewDistanceToPoint(origin RealPoint) DistanceToPoint {
	return DistanceToPoint{Distance: EuclideanDistance, Origin: origin}
}

// At implements PointFunctor.
func (d DistanceToPoint) At(p RealPoint) float64 { return d.Distance(d.Origin, p) }

// Composer evaluates a point functor at the embedding of a surfel.
type Composer struct {
	Embedder Embedder
	Functor  PointFunctor
}

// Compose returns the vertex functor s -> f(e(s)).
func Compose(e Embedder, f PointFunctor) *Composer {
	return &Composer{Embedder: e, Functor: f}
}

// Value implements topology.VertexFunctor.
func (c *Composer) Value(s kspace.SCell) float64 { return c.Functor.At(c.Embedder.Embed(s)) }

// Constant gives every surfel the same value, turning a distance visitor
// into a breadth-first traversal ordered by cell.
type Constant float64

// Value implements topology.VertexFunctor.
func (c Constant) Value(kspace.SCell) float64 { return float64(c) }

// Height returns the canonic coordinate of a surfel along Axis.
type Height struct {
	Space *kspace.KSpace
	Axis  int
}

// Value implements topology.VertexFunctor.
func (h Height) Value(s kspace.SCell) float64 {
	if h.Axis < 0 || h.Axis >= h.Space.Dim() {
		panic("functors: height axis out of range")
	}
	return h.Space.Embed(s)[h.Axis]
}

// DistanceFrom returns the Euclidean distance from the canonic embedding of
// seed, the functor the distance traversal programs use.
func DistanceFrom(ks *kspace.KSpace, seed kspace.SCell) *Composer {
	e := CanonicEmbedder{Space: ks}
	return Compose(e, NewDistanceToPoint(e.Embed(seed)))
}

var (
	_ topology.VertexFunctor = VertexFunc(nil)
	_ topology.VertexFunctor = (*Composer)(nil)
	_ topology.VertexFunctor = Constant(0)
	_ topology.VertexFunctor = Height{}
)
