package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/gg"

	"dgsurface/pkg/kspace"
)

// DefaultColor is the color of surfels added without one.
var DefaultColor color.Color = gg.RGB(128.0/255, 128.0/255, 128.0/255).Color()

// background of every rendered image
var background = gg.RGB(0, 0, 0)

// item is a surfel with the color it is drawn with
type item struct {
	surfel kspace.SCell
	color  color.Color
}

// Viewer collects colored surfels of a 3D space and renders them as 2D
// images: orthographic projections of the whole surface, or the contour of
// the surface within one layer of spels.
type Viewer struct {
	// space is the cellular space the surfels live in
	space *kspace.KSpace

	// items holds the surfels in the order they were added
	items []item

	// scale is the number of pixels per spel along each axis
	scale int
}

// NewViewer creates a viewer for surfels of ks, drawing each spel as a
// scale x scale pixel square. The space must be 3D.
func NewViewer(ks *kspace.KSpace, scale int) (*Viewer, error) {
	if ks.Dim() != 3 {
		return nil, fmt.Errorf("viewer needs a 3D space, got %dD", ks.Dim())
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be positive, got %d", scale)
	}
	return &Viewer{space: ks, scale: scale}, nil
}

// Add records s with color c. A nil color selects DefaultColor.
func (v *Viewer) Add(s kspace.SCell, c color.Color) {
	if c == nil {
		c = DefaultColor
	}
	v.items = append(v.items, item{surfel: s, color: c})
}

// Len returns the number of recorded surfels.
func (v *Viewer) Len() int { return len(v.items) }

// parseAxis maps "x", "y" or "z" to the axis index and the two axes of the
// image plane, horizontal first.
func parseAxis(axis string) (k, u, w int, err error) {
	switch strings.ToLower(axis) {
	case "x":
		return 0, 2, 1, nil
	case "y":
		return 1, 0, 2, nil
	case "z":
		return 2, 0, 1, nil
	}
	return 0, 0, 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// pixel converts a Khalimsky coordinate along axis k to an image coordinate.
func (v *Viewer) pixel(k, kc int) float64 {
	return float64(kc-2*v.space.Lower()[k]) * float64(v.scale) / 2
}

func (v *Viewer) newContext(u, w int) *gg.Context {
	dc := gg.NewContext(v.space.Size(u)*v.scale, v.space.Size(w)*v.scale)
	dc.ClearWithColor(background)
	dc.SetLineWidth(float64(max(1, v.scale/4)))
	return dc
}

// drawSurfel paints the projection of s on the (u, w) plane: a filled square
// when s faces the viewer, a segment when it is seen edge-on.
func (v *Viewer) drawSurfel(dc *gg.Context, s kspace.SCell, u, w int, c color.Color) error {
	cu, cw := s.Coords[u], s.Coords[w]
	dc.SetColor(c)
	switch orth := v.space.OrthDir(s); orth {
	case u:
		x := v.pixel(u, cu)
		dc.MoveTo(x, v.pixel(w, cw-1))
		dc.LineTo(x, v.pixel(w, cw+1))
		return dc.Stroke()
	case w:
		y := v.pixel(w, cw)
		dc.MoveTo(v.pixel(u, cu-1), y)
		dc.LineTo(v.pixel(u, cu+1), y)
		return dc.Stroke()
	default:
		x0, y0 := v.pixel(u, cu-1), v.pixel(w, cw-1)
		dc.DrawRectangle(x0, y0, v.pixel(u, cu+1)-x0, v.pixel(w, cw+1)-y0)
		return dc.Fill()
	}
}

// shade darkens c by factor f.
func shade(c color.Color, f float64) color.Color {
	rgba := gg.FromColor(c)
	return gg.RGBA2(rgba.R*f, rgba.G*f, rgba.B*f, rgba.A).Color()
}

// snapshot copies the context image so that it outlives the context.
func snapshot(dc *gg.Context) image.Image {
	src := dc.Image()
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// RenderProjection draws every recorded surfel as seen from far along the
// positive axis, farthest first. Surfels seen edge-on are drawn darker.
func (v *Viewer) RenderProjection(axis string) (image.Image, error) {
	k, u, w, err := parseAxis(axis)
	if err != nil {
		return nil, err
	}
	order := make([]item, len(v.items))
	copy(order, v.items)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].surfel.Coords[k] < order[j].surfel.Coords[k]
	})

	dc := v.newContext(u, w)
	defer dc.Close()
	for _, it := range order {
		c := it.color
		if v.space.OrthDir(it.surfel) != k {
			c = shade(c, 0.6)
		}
		if err := v.drawSurfel(dc, it.surfel, u, w, c); err != nil {
			return nil, fmt.Errorf("error drawing surfel %v: %w", it.surfel, err)
		}
	}
	return snapshot(dc), nil
}

// ExtractSlice draws the contour of the surface within the layer of spels at
// digital coordinate position along axis: the recorded surfels crossing that
// layer, seen edge-on.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	k, u, w, err := parseAxis(axis)
	if err != nil {
		return nil, err
	}
	if position < v.space.Lower()[k] || position > v.space.Upper()[k] {
		return nil, fmt.Errorf("position %d outside [%d, %d] along %s", position, v.space.Lower()[k], v.space.Upper()[k], axis)
	}

	layer := 2*position + 1
	dc := v.newContext(u, w)
	defer dc.Close()
	for _, it := range v.items {
		if it.surfel.Coords[k] != layer {
			continue
		}
		if err := v.drawSurfel(dc, it.surfel, u, w, it.color); err != nil {
			return nil, fmt.Errorf("error drawing surfel %v: %w", it.surfel, err)
		}
	}
	return snapshot(dc), nil
}

// SaveSlice saves an image as PNG when filename ends with .png, as JPEG
// otherwise.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
// as PNG files.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	k, _, _, err := parseAxis(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	lower := v.space.Lower()[k]
	for pos := lower; pos <= v.space.Upper()[k]; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos-lower))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SaveProjection renders the projection along axis to filename.
func (v *Viewer) SaveProjection(axis, filename string) error {
	img, err := v.RenderProjection(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return v.SaveSlice(img, filename)
}
