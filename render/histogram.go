package render

import (
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramSize is the size of saved histogram plots.
var HistogramSize = [2]vg.Length{6 * vg.Inch, 4 * vg.Inch}

// CurvatureHistogram plots the distribution of curvature values.
func CurvatureHistogram(values []float64, bins int, title string) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.New("no curvature values to plot")
	}
	if bins <= 0 {
		bins = 16
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Gaussian curvature"
	p.Y.Label.Text = "count"
	p.Add(h)
	return p, nil
}

// WritePlot encodes p in the named format (png, svg, pdf, ...).
func WritePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(HistogramSize[0], HistogramSize[1], format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
