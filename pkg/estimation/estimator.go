// Package estimation evaluates differential quantities of the continuous
// shape a digital surface was sampled from. Each surfel is embedded, projected
// on the zero level set of the shape and the quantity is computed there, which
// gives the ground truth digital estimators are compared with.
package estimation

import (
	"gonum.org/v1/gonum/spatial/r3"

	"dgsurface/pkg/functors"
	"dgsurface/pkg/kspace"
)

// Field is an implicit shape: negative inside, positive outside, zero on the
// boundary.
type Field interface {
	Evaluate(p r3.Vec) float64
}

// GeometricFunctor computes a quantity of a field at a point of its zero
// level set.
type GeometricFunctor[Q any] interface {
	Eval(f Field, p r3.Vec) Q
}

// TrueLocalEstimator evaluates a geometric functor at the points of a shape
// nearest to surfels.
type TrueLocalEstimator[Q any] struct {
	space   *kspace.KSpace
	shape   Field
	functor GeometricFunctor[Q]

	embedder functors.ScaledEmbedder
	maxIter  int
	accuracy float64
	gamma    float64
	ready    bool
}

// New returns an estimator of functor over shape for surfels of ks. Init must
// be called before any evaluation.
func New[Q any](ks *kspace.KSpace, shape Field, functor GeometricFunctor[Q]) *TrueLocalEstimator[Q] {
	return &TrueLocalEstimator[Q]{space: ks, shape: shape, functor: functor}
}

// Init sets the grid step h the shape was digitised with, and the parameters
// of the projection on the shape: at most maxIter steps of size gamma, until
// the field is below accuracy in absolute value.
func (e *TrueLocalEstimator[Q]) Init(h float64, maxIter int, accuracy, gamma float64) {
	e.embedder = functors.ScaledEmbedder{Space: e.space, Step: h}
	e.maxIter = maxIter
	e.accuracy = accuracy
	e.gamma = gamma
	e.ready = true
}

// H returns the grid step.
func (e *TrueLocalEstimator[Q]) H() float64 { return e.embedder.Step }

// Project returns the point of the shape reached from the embedding of s.
func (e *TrueLocalEstimator[Q]) Project(s kspace.SCell) r3.Vec {
	if !e.ready {
		panic("estimation: estimator used before Init")
	}
	x := e.embedder.Embed(s)
	p := r3.Vec{X: x[0], Y: x[1], Z: x[2]}
	return NearestPoint(e.shape, p, e.maxIter, e.accuracy, e.gamma)
}

// Eval returns the quantity at the point of the shape nearest to s.
func (e *TrueLocalEstimator[Q]) Eval(s kspace.SCell) Q {
	return e.functor.Eval(e.shape, e.Project(s))
}

// EvalAll evaluates every surfel in order.
func (e *TrueLocalEstimator[Q]) EvalAll(surfels []kspace.SCell) []Q {
	out := make([]Q, len(surfels))
	for i, s := range surfels {
		out[i] = e.Eval(s)
	}
	return out
}

// NearestPoint moves p toward the zero level set of f with Newton steps
// scaled by gamma.
func NearestPoint(f Field, p r3.Vec, maxIter int, accuracy, gamma float64) r3.Vec {
	for i := 0; i < maxIter; i++ {
		v := f.Evaluate(p)
		if v < accuracy && v > -accuracy {
			break
		}
		g := Gradient(f, p)
		n2 := r3.Dot(g, g)
		if n2 == 0 {
			break
		}
		p = r3.Sub(p, r3.Scale(gamma*v/n2, g))
	}
	return p
}
