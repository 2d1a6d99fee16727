// Package images turns voxel volumes into membership predicates: a threshold
// window over the voxel values, or an explicit set of digital points.
package images

import (
	"dgsurface/internal/models"
	"dgsurface/pkg/kspace"
)

// Image is a 3D integer image over the domain [Lower(), Upper()].
type Image struct {
	vol   *models.Volume
	lower kspace.Point
}

// FromVolume wraps vol. The voxel (0,0,0) of the volume is the digital point
// lower.
func FromVolume(vol *models.Volume, lower kspace.Point) *Image {
	return &Image{vol: vol, lower: lower}
}

// Volume returns the underlying voxel grid.
func (img *Image) Volume() *models.Volume { return img.vol }

// Lower returns the lowest point of the domain.
func (img *Image) Lower() kspace.Point { return img.lower }

// Upper returns the highest point of the domain.
func (img *Image) Upper() kspace.Point {
	return img.lower.Add(kspace.Pt(img.vol.Width-1, img.vol.Height-1, img.vol.Depth-1))
}

// Contains reports whether p lies in the domain.
func (img *Image) Contains(p kspace.Point) bool {
	q := p.Sub(img.lower)
	return img.vol.Contains(q[0], q[1], q[2])
}

// At returns the value at p, or 0 outside the domain.
func (img *Image) At(p kspace.Point) int {
	q := p.Sub(img.lower)
	return img.vol.At(q[0], q[1], q[2])
}

// Space builds the closed cellular space over the image domain.
func (img *Image) Space() (*kspace.KSpace, error) {
	return kspace.New(3, img.Lower(), img.Upper(), true)
}

// ThresholdPredicate holds the points whose value lies in [Min, Max].
type ThresholdPredicate struct {
	Image    *Image
	Min, Max int
}

// Inside implements topology.Predicate.
func (t ThresholdPredicate) Inside(p kspace.Point) bool {
	if !t.Image.Contains(p) {
		return false
	}
	v := t.Image.At(p)
	return v >= t.Min && v <= t.Max
}

// DigitalSet is an explicit set of digital points of a domain.
type DigitalSet struct {
	lower, upper kspace.Point
	points       map[kspace.Point]struct{}
}

// NewDigitalSet returns an empty set over [lower, upper].
func NewDigitalSet(lower, upper kspace.Point) *DigitalSet {
	return &DigitalSet{lower: lower, upper: upper, points: make(map[kspace.Point]struct{})}
}

// SetFromImage returns the set of points of img whose value lies in
// [min, max].
func SetFromImage(img *Image, min, max int) *DigitalSet {
	set := NewDigitalSet(img.Lower(), img.Upper())
	set.Append(img, min, max)
	return set
}

// Append inserts the points of img whose value lies in [min, max].
func (s *DigitalSet) Append(img *Image, min, max int) {
	vol := img.Volume()
	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				v := vol.Data[vol.Index(x, y, z)]
				if v >= min && v <= max {
					s.Insert(img.Lower().Add(kspace.Pt(x, y, z)))
				}
			}
		}
	}
}

// Insert adds p. Points outside the domain are ignored.
func (s *DigitalSet) Insert(p kspace.Point) {
	for i := 0; i < 3; i++ {
		if p[i] < s.lower[i] || p[i] > s.upper[i] {
			return
		}
	}
	s.points[p] = struct{}{}
}

// Inside implements topology.Predicate.
func (s *DigitalSet) Inside(p kspace.Point) bool {
	_, ok := s.points[p]
	return ok
}

// Len returns the number of points.
func (s *DigitalSet) Len() int { return len(s.points) }

// Lower returns the lowest point of the domain.
func (s *DigitalSet) Lower() kspace.Point { return s.lower }

// Upper returns the highest point of the domain.
func (s *DigitalSet) Upper() kspace.Point { return s.upper }
