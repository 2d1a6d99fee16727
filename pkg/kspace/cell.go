package kspace

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a digital point. Only the first Dim() coordinates of a space are
// meaningful, the others stay zero.
type Point [MaxDim]int

// Pt builds a point from its leading coordinates.
func Pt(coords ...int) Point {
	if len(coords) > MaxDim {
		panic(fmt.Sprintf("kspace: %d coordinates exceed MaxDim", len(coords)))
	}
	var p Point
	copy(p[:], coords)
	return p
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	for i := range p {
		p[i] += q[i]
	}
	return p
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	for i := range p {
		p[i] -= q[i]
	}
	return p
}

// Text formats the first dim coordinates of p, e.g. "(1,2,3)".
func (p Point) Text(dim int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < dim; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p[i]))
	}
	b.WriteByte(')')
	return b.String()
}

// Cell is an unsigned cell addressed by its Khalimsky coordinates.
type Cell struct {
	Coords Point
}

// SCell is a signed (oriented) cell. The sign of a surfel tells on which side
// of its orthogonal axis the interior spel lies: Pos for the upper side, Neg
// for the lower side.
type SCell struct {
	Coords Point
	Sign   bool
}

// Opposite returns s with the reverse orientation.
func Opposite(s SCell) SCell {
	s.Sign = !s.Sign
	return s
}

// Compare orders signed cells lexicographically on their coordinates, then
// negative before positive.
func (s SCell) Compare(o SCell) int {
	for i := 0; i < MaxDim; i++ {
		switch {
		case s.Coords[i] < o.Coords[i]:
			return -1
		case s.Coords[i] > o.Coords[i]:
			return 1
		}
	}
	switch {
	case s.Sign == o.Sign:
		return 0
	case !s.Sign:
		return -1
	default:
		return 1
	}
}

func (s SCell) String() string {
	sign := '-'
	if s.Sign {
		sign = '+'
	}
	return fmt.Sprintf("%c%v", sign, s.Coords)
}
