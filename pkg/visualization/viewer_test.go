package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

var red = color.NRGBA{R: 250, A: 255}

// createBoxViewer records the boundary of the box [lo, hi] in the space
// [0, 4]^3 in red
func createBoxViewer(t *testing.T, lo, hi int, scale int) *Viewer {
	t.Helper()
	ks, err := kspace.New(3, kspace.Pt(0, 0, 0), kspace.Pt(4, 4, 4), true)
	if err != nil {
		t.Fatalf("kspace.New failed: %v", err)
	}
	pred := topology.PredicateFunc(func(p kspace.Point) bool {
		for i := 0; i < 3; i++ {
			if p[i] < lo || p[i] > hi {
				return false
			}
		}
		return true
	})
	viewer, err := NewViewer(ks, scale)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}
	topology.MakeBoundary(ks, pred).Each(func(s kspace.SCell) bool {
		viewer.Add(s, red)
		return true
	})
	return viewer
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xc000 && g < 0x2000 && b < 0x2000
}

// TestNewViewer verifies the parameter checks of a new viewer
func TestNewViewer(t *testing.T) {
	ks2, err := kspace.New(2, kspace.Pt(0, 0), kspace.Pt(4, 4), true)
	if err != nil {
		t.Fatalf("kspace.New failed: %v", err)
	}
	if _, err := NewViewer(ks2, 8); err == nil {
		t.Error("Expected error for a 2D space, got nil")
	}

	viewer := createBoxViewer(t, 2, 2, 8)
	if viewer.Len() != 6 {
		t.Errorf("Expected 6 surfels, got %d", viewer.Len())
	}
	if viewer.scale != 8 {
		t.Errorf("Expected scale 8, got %d", viewer.scale)
	}
	viewer.Add(kspace.SCell{}, nil)
	if viewer.items[6].color != DefaultColor {
		t.Error("Expected the default color for a nil color")
	}
}

// TestRenderProjection verifies that the face toward the viewer covers the
// projection of a voxel
func TestRenderProjection(t *testing.T) {
	viewer := createBoxViewer(t, 2, 2, 8)

	for _, axis := range []string{"x", "y", "z"} {
		img, err := viewer.RenderProjection(axis)
		if err != nil {
			t.Fatalf("RenderProjection(%s) failed: %v", axis, err)
		}
		bounds := img.Bounds()
		if bounds.Dx() != 40 || bounds.Dy() != 40 {
			t.Errorf("Expected 40x40 image, got %dx%d", bounds.Dx(), bounds.Dy())
		}
		if c := img.At(20, 20); !isRed(c) {
			t.Errorf("Axis %s: expected the voxel face at the center, got %v", axis, c)
		}
		if c := img.At(2, 2); !isBlack(c) {
			t.Errorf("Axis %s: expected background in the corner, got %v", axis, c)
		}
	}

	if _, err := viewer.RenderProjection("w"); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestExtractSlice verifies that a slice shows the contour of the surface
func TestExtractSlice(t *testing.T) {
	viewer := createBoxViewer(t, 1, 3, 8)

	img, err := viewer.ExtractSlice("z", 2)
	if err != nil {
		t.Fatalf("Failed to extract Z slice: %v", err)
	}
	if c := img.At(20, 20); !isBlack(c) {
		t.Errorf("Expected the inside of the contour empty, got %v", c)
	}
	if c := img.At(8, 20); isBlack(c) {
		t.Error("Expected the left side of the contour to be drawn")
	}
	if c := img.At(20, 32); isBlack(c) {
		t.Error("Expected the bottom side of the contour to be drawn")
	}

	empty, err := viewer.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("Failed to extract Z slice: %v", err)
	}
	if c := empty.At(8, 20); !isBlack(c) {
		t.Errorf("Expected an empty slice outside the box, got %v", c)
	}

	// Test invalid axis
	if _, err := viewer.ExtractSlice("invalid", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}

	// Test out of bounds position
	if _, err := viewer.ExtractSlice("z", 5); err == nil {
		t.Error("Expected error for out of bounds position, got nil")
	}
}

// TestSaveSliceSequence verifies that a sequence of slices can be saved
func TestSaveSliceSequence(t *testing.T) {
	// Skip this test in short mode
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	viewer := createBoxViewer(t, 1, 3, 4)
	outputDir := filepath.Join(t.TempDir(), "slices")
	if err := viewer.SaveSliceSequence("y", outputDir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}

	// Verify files exist
	for y := 0; y < 5; y++ {
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_y_%03d.png", y))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}

	projection := filepath.Join(outputDir, "proj", "z.jpg")
	if err := viewer.SaveProjection("z", projection); err != nil {
		t.Fatalf("Failed to save projection: %v", err)
	}
	f, err := os.Open(projection)
	if err != nil {
		t.Fatalf("Failed to open projection: %v", err)
	}
	defer f.Close()
	if _, format, err := image.Decode(f); err != nil || format != "jpeg" {
		t.Errorf("Expected a JPEG projection, got %q (%v)", format, err)
	}

	// Test invalid axis
	if err := viewer.SaveSliceSequence("invalid", outputDir); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

func TestHueShadeColorMap(t *testing.T) {
	m := NewHueShadeColorMap(10, 0, 1)
	if m.Min != 0 || m.Max != 10 {
		t.Fatalf("Expected the range to be reordered, got %v..%v", m.Min, m.Max)
	}
	tests := []struct {
		v, hue float64
	}{
		{-5, 0},
		{0, 0},
		{5, 150},
		{10, 300},
		{20, 300},
	}
	for _, tt := range tests {
		if h := m.Hue(tt.v); h != tt.hue {
			t.Errorf("Hue(%v) = %v, expected %v", tt.v, h, tt.hue)
		}
	}
	if !isRed(m.At(0)) {
		t.Errorf("Expected red at the minimum, got %v", m.At(0))
	}

	two := NewHueShadeColorMap(0, 10, 2)
	if h := two.Hue(2.5); h != 150 {
		t.Errorf("Expected hue 150 half way through the first cycle, got %v", h)
	}
	if h := (HueShadeColorMap{Min: 1, Max: 1}).Hue(3); h != 0 {
		t.Errorf("Expected hue 0 for an empty range, got %v", h)
	}
}
