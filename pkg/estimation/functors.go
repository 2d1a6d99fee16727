package estimation

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// derivStep is the finite difference step for derivatives of a field.
const derivStep = 1e-3

// Gradient returns the central difference gradient of f at p.
func Gradient(f Field, p r3.Vec) r3.Vec {
	d := func(e r3.Vec) float64 {
		return (f.Evaluate(r3.Add(p, e)) - f.Evaluate(r3.Sub(p, e))) / (2 * derivStep)
	}
	return r3.Vec{
		X: d(r3.Vec{X: derivStep}),
		Y: d(r3.Vec{Y: derivStep}),
		Z: d(r3.Vec{Z: derivStep}),
	}
}

// Hessian returns the central difference Hessian of f at p.
func Hessian(f Field, p r3.Vec) *mat.SymDense {
	axes := [3]r3.Vec{{X: derivStep}, {Y: derivStep}, {Z: derivStep}}
	at := func(offsets ...r3.Vec) float64 {
		q := p
		for _, o := range offsets {
			q = r3.Add(q, o)
		}
		return f.Evaluate(q)
	}
	neg := func(v r3.Vec) r3.Vec { return r3.Scale(-1, v) }

	h := mat.NewSymDense(3, nil)
	f0 := f.Evaluate(p)
	for i := 0; i < 3; i++ {
		ei := axes[i]
		h.SetSym(i, i, (at(ei)-2*f0+at(neg(ei)))/(derivStep*derivStep))
		for j := i + 1; j < 3; j++ {
			ej := axes[j]
			v := (at(ei, ej) - at(ei, neg(ej)) - at(neg(ei), ej) + at(neg(ei), neg(ej))) / (4 * derivStep * derivStep)
			h.SetSym(i, j, v)
		}
	}
	return h
}

// NormalVector is the outward unit normal.
type NormalVector struct{}

// Eval implements GeometricFunctor.
func (NormalVector) Eval(f Field, p r3.Vec) r3.Vec { return r3.Unit(Gradient(f, p)) }

// MeanCurvature is the mean of the principal curvatures, positive on convex
// parts: 1/R on a sphere of radius R.
type MeanCurvature struct{}

// Eval implements GeometricFunctor.
func (MeanCurvature) Eval(f Field, p r3.Vec) float64 {
	g := Gradient(f, p)
	gv := mat.NewVecDense(3, []float64{g.X, g.Y, g.Z})
	h := Hessian(f, p)
	n := r3.Norm(g)
	if n == 0 {
		return math.NaN()
	}
	trace := h.At(0, 0) + h.At(1, 1) + h.At(2, 2)
	// div(g/|g|) = (|g|^2 tr(H) - g.H.g) / |g|^3
	return (n*n*trace - mat.Inner(gv, h, gv)) / (2 * n * n * n)
}

// GaussianCurvature is the product of the principal curvatures: 1/R^2 on a
// sphere of radius R.
type GaussianCurvature struct{}

// Eval implements GeometricFunctor.
func (GaussianCurvature) Eval(f Field, p r3.Vec) float64 {
	g := Gradient(f, p)
	h := Hessian(f, p)
	n2 := r3.Dot(g, g)
	if n2 == 0 {
		return math.NaN()
	}
	grad := [3]float64{g.X, g.Y, g.Z}
	b := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.Set(i, j, h.At(i, j))
		}
		b.Set(i, 3, grad[i])
		b.Set(3, i, grad[i])
	}
	return -mat.Det(b) / (n2 * n2)
}
