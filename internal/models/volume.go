package models

import "fmt"

// Volume is a 3D grid of integer voxel values, as read from a vol file
type Volume struct {
	// Data holds the voxel values in row-major order: index z*w*h + y*w + x
	Data []int

	// Width is the number of voxels along x
	Width int

	// Height is the number of voxels along y
	Height int

	// Depth is the number of voxels along z
	Depth int

	// VoxelSize is the physical size of each voxel
	VoxelSize struct {
		X, Y, Z float64
	}
}

// NewVolume allocates a zero-filled volume with unit voxels
func NewVolume(width, height, depth int) *Volume {
	v := &Volume{
		Data:   make([]int, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X, v.VoxelSize.Y, v.VoxelSize.Z = 1, 1, 1
	return v
}

// Index returns the position of voxel (x, y, z) in Data
func (v *Volume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// Contains reports whether (x, y, z) is a voxel of the volume
func (v *Volume) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.Width && y < v.Height && z < v.Depth
}

// At returns the value of voxel (x, y, z), or 0 outside the volume
func (v *Volume) At(x, y, z int) int {
	if !v.Contains(x, y, z) {
		return 0
	}
	return v.Data[v.Index(x, y, z)]
}

// Set stores value at voxel (x, y, z). It panics outside the volume.
func (v *Volume) Set(x, y, z, value int) {
	if !v.Contains(x, y, z) {
		panic(fmt.Sprintf("models: voxel (%d,%d,%d) outside %dx%dx%d volume", x, y, z, v.Width, v.Height, v.Depth))
	}
	v.Data[v.Index(x, y, z)] = value
}

// Len returns the number of voxels
func (v *Volume) Len() int {
	return v.Width * v.Height * v.Depth
}
