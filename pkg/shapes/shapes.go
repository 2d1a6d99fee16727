// Package shapes digitises continuous implicit shapes, given as signed
// distance functions, into membership predicates and voxel volumes.
package shapes

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"dgsurface/internal/models"
	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

// Shape is a signed distance function sampled on a grid of step Step: the
// digital point p stands for the continuous point p*Step, and belongs to the
// shape when the distance there is not positive.
type Shape struct {
	SDF  sdf.SDF3
	Step float64

	lower, upper kspace.Point
}

// Digitize samples s with grid step h. The domain is the bounding box of s
// grown by one point on every side, so that the digital shape never touches
// the border of the domain.
func Digitize(s sdf.SDF3, h float64) (*Shape, error) {
	if h <= 0 {
		return nil, fmt.Errorf("%w: grid step %v", ErrBadArguments, h)
	}
	bb := s.BoundingBox()
	sh := &Shape{SDF: s, Step: h}
	mins := [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	maxs := [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	for i := 0; i < 3; i++ {
		sh.lower[i] = int(math.Floor(mins[i]/h)) - 1
		sh.upper[i] = int(math.Ceil(maxs[i]/h)) + 1
	}
	return sh, nil
}

// ParseAndDigitize parses a shape expression and samples it with step h.
func ParseAndDigitize(expr string, h float64) (*Shape, error) {
	s, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return Digitize(s, h)
}

// Lower returns the lowest point of the digital domain.
func (sh *Shape) Lower() kspace.Point { return sh.lower }

// Upper returns the highest point of the digital domain.
func (sh *Shape) Upper() kspace.Point { return sh.upper }

// Inside implements topology.Predicate.
func (sh *Shape) Inside(p kspace.Point) bool {
	x := v3.Vec{X: float64(p[0]) * sh.Step, Y: float64(p[1]) * sh.Step, Z: float64(p[2]) * sh.Step}
	return sh.SDF.Evaluate(x) <= 0
}

// Evaluate returns the signed distance at the continuous point p.
func (sh *Shape) Evaluate(p r3.Vec) float64 {
	return sh.SDF.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// Space builds the closed cellular space over the digital domain.
func (sh *Shape) Space() (*kspace.KSpace, error) {
	return kspace.New(3, sh.lower, sh.upper, true)
}

// ToVolume rasterises pred over [lower, upper]: voxels inside get value, the
// others 0. The voxel (0,0,0) of the volume is the point lower.
func ToVolume(pred topology.Predicate, lower, upper kspace.Point, value int) *models.Volume {
	size := upper.Sub(lower)
	vol := models.NewVolume(size[0]+1, size[1]+1, size[2]+1)
	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				if pred.Inside(lower.Add(kspace.Pt(x, y, z))) {
					vol.Data[vol.Index(x, y, z)] = value
				}
			}
		}
	}
	return vol
}

// Volume rasterises the shape over its domain.
func (sh *Shape) Volume(value int) *models.Volume {
	vol := ToVolume(sh, sh.lower, sh.upper, value)
	vol.VoxelSize.X, vol.VoxelSize.Y, vol.VoxelSize.Z = sh.Step, sh.Step, sh.Step
	return vol
}
