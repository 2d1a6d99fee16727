package topology

import (
	"github.com/emirpasic/gods/trees/binaryheap"

	"dgsurface/pkg/kspace"
)

// VertexFunctor maps a surfel to the scalar a DistanceVisitor orders by.
// It must return the same value for the same surfel during a traversal.
type VertexFunctor interface {
	Value(s kspace.SCell) float64
}

// Node is a surfel together with its functor value.
type Node struct {
	Surfel   kspace.SCell
	Distance float64
}

func nodeComparator(a, b interface{}) int {
	na, nb := a.(Node), b.(Node)
	switch {
	case na.Distance < nb.Distance:
		return -1
	case na.Distance > nb.Distance:
		return 1
	}
	return na.Surfel.Compare(nb.Surfel)
}

// DistanceVisitor visits a surface component by increasing functor value,
// like Dijkstra's algorithm except that a surfel's key is the functor value
// at that surfel rather than a sum along a path. It is driven by the caller:
// each Expand call visits one more surfel.
//
// A surfel may sit several times in the queue when several visited surfels
// discovered it. Since its key is always the same, the first pop is the one
// kept and later ones are dropped.
type DistanceVisitor struct {
	surface *ImplicitSurface
	functor VertexFunctor
	queue   *binaryheap.Heap
	marker  Marker

	current Node
	started bool
	buf     []kspace.SCell
}

// NewDistanceVisitor starts a visit of surface from seed, which is queued
// with key functor(seed). Surfels already held by a marker given with
// WithMarker count as visited: they are never returned and the visit does
// not cross them. A visitor whose seed is already marked starts finished.
func NewDistanceVisitor(surface *ImplicitSurface, functor VertexFunctor, seed kspace.SCell, opts ...Option) *DistanceVisitor {
	o := buildOptions(opts)
	v := &DistanceVisitor{
		surface: surface,
		functor: functor,
		queue:   binaryheap.NewWith(nodeComparator),
		marker:  o.marker,
	}
	if !v.marker.Contains(seed) {
		v.queue.Push(Node{Surfel: seed, Distance: functor.Value(seed)})
	}
	return v
}

// Finished reports whether every surfel of the component has been visited.
func (v *DistanceVisitor) Finished() bool { return v.queue.Empty() }

// Started reports whether Expand has been called at least once.
func (v *DistanceVisitor) Started() bool { return v.started }

// Visited returns the number of surfels visited so far, including those
// the marker held before the visit.
func (v *DistanceVisitor) Visited() int { return v.marker.Len() }

// Current returns the node visited by the last Expand call. It panics when
// Expand has not been called yet.
func (v *DistanceVisitor) Current() Node {
	if !v.started {
		panic("topology: DistanceVisitor.Current called before Expand")
	}
	return v.current
}

// Expand visits the queued surfel of smallest key, queues its unvisited
// neighbours and returns it. It panics when the visitor is finished.
func (v *DistanceVisitor) Expand() Node {
	raw, ok := v.queue.Pop()
	if !ok {
		panic("topology: DistanceVisitor.Expand called on a finished visitor")
	}
	node := raw.(Node)
	v.marker.TryAdd(node.Surfel)
	v.current = node
	v.started = true

	v.buf = v.surface.WriteNeighbors(v.buf[:0], node.Surfel)
	for _, n := range v.buf {
		if !v.marker.Contains(n) {
			v.queue.Push(Node{Surfel: n, Distance: v.functor.Value(n)})
		}
	}
	v.dropVisited()
	return node
}

// dropVisited pops stale entries so that the head of the queue, if any, is
// always an unvisited surfel.
func (v *DistanceVisitor) dropVisited() {
	for {
		raw, ok := v.queue.Peek()
		if !ok || !v.marker.Contains(raw.(Node).Surfel) {
			return
		}
		v.queue.Pop()
	}
}

// Drain expands the visitor until it is finished or visit returns false.
func (v *DistanceVisitor) Drain(visit func(Node) bool) {
	for !v.Finished() {
		if !visit(v.Expand()) {
			return
		}
	}
}
