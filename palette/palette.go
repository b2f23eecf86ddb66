// Package palette maps curvature values and branch levels to display colors.
package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"go.viam.com/canopy/utils"
)

var (
	// Valley is the color of the lowest curvature on a surface.
	Valley = colorful.Color{R: 0, G: 0, B: 1}
	// Midpoint is the color halfway through the curvature range.
	Midpoint = colorful.Color{R: 1, G: 1, B: 0}
	// Ridge is the color of the highest curvature on a surface.
	Ridge = colorful.Color{R: 1, G: 0, B: 0}

	levelColors = []color.NRGBA{
		{R: 200, G: 50, B: 50, A: 255}, // trunk
		{R: 50, G: 200, B: 50, A: 255},
		{R: 50, G: 50, B: 200, A: 255},
	}
)

// Gradient maps k inside [kMin, kMax] onto a blue -> yellow -> red ramp, linear within each half
// of the range. When the range is empty every value maps to the midpoint color.
func Gradient(k, kMin, kMax float64) color.NRGBA {
	t := 0.5
	if !utils.Float64AlmostEqual(kMax, kMin, utils.CurvatureRangeEpsilon) {
		t = (k - kMin) / (kMax - kMin)
	}
	return Ramp(t)
}

// Ramp returns the gradient color at a normalized position t, clamped to [0, 1].
func Ramp(t float64) color.NRGBA {
	var c colorful.Color
	switch {
	case t <= 0:
		c = Valley
	case t < 0.5:
		c = Valley.BlendRgb(Midpoint, t*2)
	case t < 1:
		c = Midpoint.BlendRgb(Ridge, (t-0.5)*2)
	default:
		c = Ridge
	}
	return toNRGBA(c)
}

// LevelColor returns the color of a branch at the given level. Colors repeat every three levels.
func LevelColor(level int) color.NRGBA {
	if level < 0 {
		level = -level
	}
	return levelColors[level%len(levelColors)]
}

// Hex returns the #rrggbb form of a color.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
