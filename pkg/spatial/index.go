// Package spatial indexes surfels by their canonic embedding for nearest
// neighbour queries.
package spatial

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"dgsurface/pkg/kspace"
)

// surfelPoint is the embedding of a surfel, usable as a kd-tree node
type surfelPoint struct {
	X, Y, Z float64
	Surfel  kspace.SCell
}

// Compare implements the kdtree.Comparable interface
func (p surfelPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(surfelPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p surfelPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points
func (p surfelPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(surfelPoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// surfelPoints satisfies kdtree.Interface
type surfelPoints []surfelPoint

func (p surfelPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p surfelPoints) Len() int                              { return len(p) }
func (p surfelPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p surfelPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(surfelPlane{surfelPoints: p, Dim: d}, kdtree.MedianOfRandoms(surfelPlane{surfelPoints: p, Dim: d}, 100))
}

// surfelPlane implements sort.Interface and kdtree.SortSlicer
type surfelPlane struct {
	surfelPoints
	kdtree.Dim
}

func (p surfelPlane) Less(i, j int) bool {
	return p.surfelPoints[i].Compare(p.surfelPoints[j], p.Dim) < 0
}

func (p surfelPlane) Slice(start, end int) kdtree.SortSlicer {
	return surfelPlane{surfelPoints: p.surfelPoints[start:end], Dim: p.Dim}
}

func (p surfelPlane) Swap(i, j int) {
	p.surfelPoints[i], p.surfelPoints[j] = p.surfelPoints[j], p.surfelPoints[i]
}

// SurfelIndex answers nearest surfel queries over a fixed set of surfels of a
// 3D space.
type SurfelIndex struct {
	space *kspace.KSpace
	tree  *kdtree.Tree
	size  int
}

// NewSurfelIndex indexes surfels. The space must be 3D.
func NewSurfelIndex(ks *kspace.KSpace, surfels []kspace.SCell) *SurfelIndex {
	if ks.Dim() != 3 {
		panic("spatial: surfel index needs a 3D space")
	}
	points := make(surfelPoints, len(surfels))
	for i, s := range surfels {
		x := ks.Embed(s)
		points[i] = surfelPoint{X: x[0], Y: x[1], Z: x[2], Surfel: s}
	}
	idx := &SurfelIndex{space: ks, size: len(points)}
	if len(points) > 0 {
		idx.tree = kdtree.New(points, true)
	}
	return idx
}

// Len returns the number of indexed surfels.
func (idx *SurfelIndex) Len() int { return idx.size }

// Nearest returns the surfel whose embedding is closest to (x, y, z) and its
// Euclidean distance. It returns false when the index is empty.
func (idx *SurfelIndex) Nearest(x, y, z float64) (kspace.SCell, float64, bool) {
	if idx.tree == nil {
		return kspace.SCell{}, 0, false
	}
	c, d2 := idx.tree.Nearest(surfelPoint{X: x, Y: y, Z: z})
	if c == nil {
		return kspace.SCell{}, 0, false
	}
	return c.(surfelPoint).Surfel, math.Sqrt(d2), true
}

// NearestN returns up to n surfels closest to (x, y, z), nearest first.
func (idx *SurfelIndex) NearestN(x, y, z float64, n int) []kspace.SCell {
	if idx.tree == nil || n <= 0 {
		return nil
	}
	keeper := kdtree.NewNKeeper(n)
	idx.tree.NearestSet(keeper, surfelPoint{X: x, Y: y, Z: z})

	type hit struct {
		s  kspace.SCell
		d2 float64
	}
	hits := make([]hit, 0, keeper.Len())
	for _, item := range keeper.Heap {
		// Skip the sentinel value
		if item.Comparable == nil {
			continue
		}
		hits = append(hits, hit{s: item.Comparable.(surfelPoint).Surfel, d2: item.Dist})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].d2 != hits[j].d2 {
			return hits[i].d2 < hits[j].d2
		}
		return hits[i].s.Compare(hits[j].s) < 0
	})
	out := make([]kspace.SCell, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}
