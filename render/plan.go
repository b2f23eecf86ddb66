// Package render draws previews of a canopy run.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r3"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/canopy/pipeline"
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

var (
	background    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	openingColor  = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	gridColor     = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	anchorColor   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	obstacleColor = color.NRGBA{R: 220, G: 0, B: 0, A: 255}
)

// PlanOptions controls the top down preview.
type PlanOptions struct {
	// Size is the length in pixels of the longer image side.
	Size int
	// Margin is the border in pixels around the drawing.
	Margin       float64
	HideOpenings bool
	HideTrees    bool
	Caption      string
}

// DefaultPlanOptions returns the options used by the CLI.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{Size: 800, Margin: 24}
}

// view maps world plan coordinates to pixels, y up.
type view struct {
	scale, margin float64
	height        float64
}

func (v view) point(p r3.Vector) (float64, float64) {
	return v.margin + p.X*v.scale, v.height - v.margin - p.Y*v.scale
}

// Plan draws the panels, openings, trees, anchors and obstacles of a run seen from above.
func Plan(res *pipeline.Result, opts PlanOptions) image.Image {
	if opts.Size <= 0 {
		opts.Size = DefaultPlanOptions().Size
	}
	ext := res.Config.Extents
	inner := float64(opts.Size) - 2*opts.Margin
	scale := inner / math.Max(ext.SizeX, ext.SizeY)
	w := int(math.Ceil(ext.SizeX*scale + 2*opts.Margin))
	h := int(math.Ceil(ext.SizeY*scale + 2*opts.Margin))
	v := view{scale: scale, margin: opts.Margin, height: float64(h)}

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	for _, p := range res.Panels.Panels {
		polygon(dc, v, p.Corners[:])
		dc.SetColor(p.Color)
		dc.FillPreserve()
		dc.SetColor(gridColor)
		dc.SetLineWidth(0.5)
		dc.Stroke()
		if p.Opening != nil && !opts.HideOpenings {
			polygon(dc, v, p.Opening[:])
			dc.SetColor(openingColor)
			dc.Fill()
		}
	}

	for _, box := range res.Config.Growth.Obstacles {
		x0, y0 := v.point(r3.Vector{X: box.Min.X, Y: box.Max.Y})
		x1, y1 := v.point(r3.Vector{X: box.Max.X, Y: box.Min.Y})
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.SetColor(obstacleColor)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	if !opts.HideTrees {
		for _, seg := range res.Segments() {
			x0, y0 := v.point(seg.From)
			x1, y1 := v.point(seg.To)
			dc.DrawLine(x0, y0, x1, y1)
			dc.SetColor(seg.Color())
			dc.SetLineWidth(math.Max(1, 2*seg.Radius*scale))
			dc.Stroke()
		}
	}

	for _, a := range res.AnchorPoints() {
		x, y := v.point(a)
		dc.DrawCircle(x, y, 4)
		dc.SetColor(anchorColor)
		dc.Fill()
	}

	if opts.Caption != "" {
		dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 14}))
		dc.SetColor(anchorColor)
		dc.DrawString(opts.Caption, opts.Margin, opts.Margin*0.75)
	}
	return dc.Image()
}

// Caption returns a one line description of a run.
func Caption(res *pipeline.Result) string {
	return fmt.Sprintf("seed %d | %d/%d panels open | %d anchors | %d segments",
		res.Config.Seed, res.Stats.OpenPanels, res.Stats.Panels, res.Stats.Anchors, res.Stats.Segments)
}

func polygon(dc *gg.Context, v view, pts []r3.Vector) {
	dc.NewSubPath()
	for i, p := range pts {
		x, y := v.point(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}
