package topology

import (
	"fmt"
	"math/rand"

	"dgsurface/internal/trace"
	"dgsurface/pkg/kspace"
)

// DefaultSeed seeds the generator FindABel uses when none is given, so that
// repeated runs on the same input return the same bel.
const DefaultSeed = 1

type belOptions struct {
	rng *rand.Rand
}

// BelOption configures FindABel.
type BelOption func(*belOptions)

// WithRand makes FindABel draw its sample points from rng.
func WithRand(rng *rand.Rand) BelOption {
	return func(o *belOptions) { o.rng = rng }
}

// FindABel returns a bel of pred in ks. It compares the lowest point of the
// space with up to maxTrials random points until it meets one of different
// membership, then halves the segment between them until two face-adjacent
// points remain. The bel between them is oriented toward the inside one.
//
// ErrBelNotFound is returned when every sampled point has the membership of
// the first one, which is always the case for an empty or full predicate.
func FindABel(ks *kspace.KSpace, pred Predicate, maxTrials int, opts ...BelOption) (kspace.SCell, error) {
	o := belOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(DefaultSeed))
	}

	dim := ks.Dim()
	lower, upper := ks.Lower(), ks.Upper()
	x1 := lower
	v1 := pred.Inside(x1)

	var x2 kspace.Point
	found := false
	for trial := 0; trial < maxTrials && !found; trial++ {
		for i := 0; i < dim; i++ {
			x2[i] = lower[i] + o.rng.Intn(upper[i]-lower[i]+1)
		}
		found = pred.Inside(x2) != v1
	}
	if !found {
		return kspace.SCell{}, fmt.Errorf("%w after %d trials", ErrBelNotFound, maxTrials)
	}

	for l1(x1, x2, dim) > 1 {
		x3 := midpoint(x1, x2, dim)
		if pred.Inside(x3) == v1 {
			x1 = x3
		} else {
			x2 = x3
		}
	}

	inside, outside := x1, x2
	if !v1 {
		inside, outside = x2, x1
	}
	bel := ks.BelBetween(inside, outside)
	trace.Logger().Debug("found bel", "bel", bel, "inside", inside.Text(dim))
	return bel, nil
}

// FindABelFrom walks from start, a point known to be inside pred, along each
// axis in turn, up then down, for at most maxSteps steps per ray, and returns
// the first bel met. In a closed space the border of the domain counts as a
// boundary.
func FindABelFrom(ks *kspace.KSpace, pred Predicate, start kspace.Point, maxSteps int) (kspace.SCell, error) {
	if !insideSpace(ks, pred, start) {
		return kspace.SCell{}, fmt.Errorf("%w: start point %s is not inside the shape", ErrBelNotFound, start.String(ks.Dim()))
	}
	for k := 0; k < ks.Dim(); k++ {
		for _, up := range []bool{true, false} {
			p := start
			for step := 0; step < maxSteps; step++ {
				next := p
				if up {
					next[k]++
				} else {
					next[k]--
				}
				if !ks.IsInsidePoint(next) {
					if ks.Closed() {
						return ks.BelBetween(p, next), nil
					}
					break
				}
				if !pred.Inside(next) {
					return ks.BelBetween(p, next), nil
				}
				p = next
			}
		}
	}
	return kspace.SCell{}, fmt.Errorf("%w within %d steps of %s", ErrBelNotFound, maxSteps, start.String(ks.Dim()))
}

func l1(a, b kspace.Point, dim int) int {
	d := 0
	for i := 0; i < dim; i++ {
		if a[i] > b[i] {
			d += a[i] - b[i]
		} else {
			d += b[i] - a[i]
		}
	}
	return d
}

// midpoint returns a point strictly between a and b in L1 distance. When
// halving rounds back to a, it takes one unit step toward b instead.
func midpoint(a, b kspace.Point, dim int) kspace.Point {
	m := a
	moved := false
	for i := 0; i < dim; i++ {
		m[i] = a[i] + (b[i]-a[i])/2
		if m[i] != a[i] {
			moved = true
		}
	}
	if moved {
		return m
	}
	for i := 0; i < dim; i++ {
		switch {
		case b[i] > a[i]:
			m[i]++
			return m
		case b[i] < a[i]:
			m[i]--
			return m
		}
	}
	return m
}
