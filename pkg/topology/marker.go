package topology

import (
	"dgsurface/pkg/kspace"
)

// Marker records the surfels a traversal has already expanded.
type Marker interface {
	// TryAdd marks s and reports whether it was not marked before.
	TryAdd(s kspace.SCell) bool

	// Contains reports whether s is marked.
	Contains(s kspace.SCell) bool

	// Len returns the number of marked surfels.
	Len() int

	// Close releases the resources held by the marker.
	Close() error
}

type memoryMarker struct {
	cells map[kspace.SCell]struct{}
}

// NewMemoryMarker returns a Marker backed by a Go map.
func NewMemoryMarker() Marker {
	return &memoryMarker{cells: make(map[kspace.SCell]struct{})}
}

func (m *memoryMarker) TryAdd(s kspace.SCell) bool {
	if _, ok := m.cells[s]; ok {
		return false
	}
	m.cells[s] = struct{}{}
	return true
}

func (m *memoryMarker) Contains(s kspace.SCell) bool {
	_, ok := m.cells[s]
	return ok
}

func (m *memoryMarker) Len() int { return len(m.cells) }

func (m *memoryMarker) Close() error {
	m.cells = nil
	return nil
}

type options struct {
	marker Marker
}

// Option configures a traversal.
type Option func(*options)

// WithMarker makes a traversal record visited surfels in m instead of a new
// in-memory marker. The caller keeps ownership of m and closes it.
func WithMarker(m Marker) Option {
	return func(o *options) { o.marker = m }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.marker == nil {
		o.marker = NewMemoryMarker()
	}
	return o
}
