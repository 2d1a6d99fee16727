// Package report summarises an extracted surface: how many surfels it has,
// how they are oriented and how the traversal distances are distributed.
package report

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

// SurfaceMetrics holds the figures printed at the end of an extraction.
type SurfaceMetrics struct {
	// Surfels is the number of bels of the extracted component.
	Surfels int

	// Orientations counts bels per orthogonal axis and sign: entry 2k holds
	// the bels whose interior lies below along axis k, entry 2k+1 those whose
	// interior lies above.
	Orientations [2 * kspace.MaxDim]int

	// Dim is the dimension of the space the surface lives in.
	Dim int

	// Distances is true when the distance fields below were computed from a
	// distance traversal.
	Distances bool

	// MaxDistance is the largest functor value met by the traversal. It is
	// not always the value of the last visited surfel.
	MaxDistance float64

	// MeanDistance and StdDevDistance describe the distribution of the
	// functor values over the surface.
	MeanDistance   float64
	StdDevDistance float64

	// MedianDistance is the empirical median of the functor values.
	MedianDistance float64

	// Coverage is the fraction of all bels of the predicate that belong to
	// the extracted component. It is 1 for a shape with a single boundary
	// component and 0 when it was not computed.
	Coverage float64
}

// FromSurfels computes the counts of a set of surfels.
func FromSurfels(ks *kspace.KSpace, surfels []kspace.SCell) SurfaceMetrics {
	m := SurfaceMetrics{Surfels: len(surfels), Dim: ks.Dim()}
	for _, s := range surfels {
		k := ks.OrthDir(s)
		idx := 2 * k
		if s.Sign == kspace.Pos {
			idx++
		}
		m.Orientations[idx]++
	}
	return m
}

// FromNodes computes the counts and the distance statistics of the nodes of
// a distance traversal, given in visiting order.
func FromNodes(ks *kspace.KSpace, nodes []topology.Node) SurfaceMetrics {
	surfels := make([]kspace.SCell, len(nodes))
	dists := make([]float64, len(nodes))
	for i, n := range nodes {
		surfels[i] = n.Surfel
		dists[i] = n.Distance
	}
	m := FromSurfels(ks, surfels)
	if len(nodes) == 0 {
		return m
	}
	m.Distances = true
	m.MeanDistance, m.StdDevDistance = stat.MeanStdDev(dists, nil)
	sort.Float64s(dists)
	m.MedianDistance = stat.Quantile(0.5, stat.Empirical, dists, nil)
	m.MaxDistance = dists[len(dists)-1]
	return m
}

// WithCoverage sets Coverage from the total number of bels of the
// predicate.
func (m SurfaceMetrics) WithCoverage(total int) SurfaceMetrics {
	if total > 0 {
		m.Coverage = float64(m.Surfels) / float64(total)
	}
	return m
}

// Print writes the metrics in the format of the extraction commands.
func (m SurfaceMetrics) Print(w io.Writer) {
	fmt.Fprintf(w, "nb surfels = %d\n", m.Surfels)
	for k := 0; k < m.Dim; k++ {
		fmt.Fprintf(w, "  axis %d: %d negative, %d positive\n", k, m.Orientations[2*k], m.Orientations[2*k+1])
	}
	if m.Distances {
		fmt.Fprintf(w, "maxDist = %g\n", m.MaxDistance)
		fmt.Fprintf(w, "  mean %.4f, std dev %.4f, median %.4f\n", m.MeanDistance, m.StdDevDistance, m.MedianDistance)
	}
	if m.Coverage > 0 {
		fmt.Fprintf(w, "coverage = %.2f%%\n", 100*m.Coverage)
	}
}
