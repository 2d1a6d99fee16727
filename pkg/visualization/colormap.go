package visualization

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// HueShadeColorMap maps a value range to hues. The hue circle is run through
// Cycles times between Min and Max, so that close values get close colors
// and distant ones can still be told apart.
type HueShadeColorMap struct {
	Min, Max float64
	Cycles   int
}

// NewHueShadeColorMap returns a map of [min, max] running once through the
// hue circle per cycle.
func NewHueShadeColorMap(min, max float64, cycles int) HueShadeColorMap {
	if cycles < 1 {
		cycles = 1
	}
	if max < min {
		min, max = max, min
	}
	return HueShadeColorMap{Min: min, Max: max, Cycles: cycles}
}

// Hue returns the hue in degrees of v. Values outside the range are clamped.
func (m HueShadeColorMap) Hue(v float64) float64 {
	if m.Max <= m.Min {
		return 0
	}
	t := (v - m.Min) / (m.Max - m.Min)
	t = math.Max(0, math.Min(1, t))
	cycles := m.Cycles
	if cycles < 1 {
		cycles = 1
	}
	f := t * float64(cycles)
	if t < 1 {
		f -= math.Floor(f)
	} else {
		f = 1
	}
	// Stop short of a full turn so that Max does not wrap back to Min's hue.
	return f * 300
}

// At returns the color of v.
func (m HueShadeColorMap) At(v float64) color.Color {
	return gg.HSL(m.Hue(v), 1, 0.5).Color()
}
