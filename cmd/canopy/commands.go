package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/edaniels/golog"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/canopy/config"
	"go.viam.com/canopy/pipeline"
	"go.viam.com/canopy/render"
)

const terminalHistogramWidth = 50

type runner struct {
	logger golog.Logger
}

// loadConfig builds the run configuration from the global flags.
func (r *runner) loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		read, err := config.Read(path, r.logger)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *read
	}
	if c.IsSet(flagSeed) {
		cfg.Seed = c.Int64(flagSeed)
	}
	if err := config.ApplyOverrides(&cfg, c.StringSlice(flagSet)); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (r *runner) run(c *cli.Context) (*pipeline.Result, error) {
	cfg, err := r.loadConfig(c)
	if err != nil {
		return nil, err
	}
	var opts []pipeline.Option
	if d := c.Duration(flagTimeout); d > 0 {
		opts = append(opts, pipeline.WithTimeout(d))
	}
	return pipeline.Run(c.Context, cfg, r.logger, opts...)
}

func (r *runner) generateAction(c *cli.Context) error {
	res, err := r.run(c)
	if err != nil {
		return err
	}
	doc := newDocument(res, c.Bool(flagPipes))
	return writeOutput(c, c.String(flagOutput), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}

func (r *runner) renderAction(c *cli.Context) error {
	res, err := r.run(c)
	if err != nil {
		return err
	}
	opts := render.DefaultPlanOptions()
	opts.Size = c.Int(flagSize)
	opts.HideOpenings = c.Bool(flagHideOpenings)
	opts.HideTrees = c.Bool(flagHideTrees)
	opts.Caption = render.Caption(res)
	img := render.Resize(render.Plan(res, opts), c.Int(flagWidth))

	out := c.String(flagOutput)
	if err := render.WriteImageToFile(out, img); err != nil {
		return errors.Wrapf(err, "cannot write %q", out)
	}
	r.logger.Infow("preview written", "path", out, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

func (r *runner) histogramAction(c *cli.Context) error {
	res, err := r.run(c)
	if err != nil {
		return err
	}
	values := panelCurvatures(res)
	out := c.String(flagOutput)
	if c.Bool(flagTerminal) || out == "" {
		return histogram.Fprint(c.App.Writer, histogram.Hist(c.Int(flagBins), values), histogram.Linear(terminalHistogramWidth))
	}

	p, err := render.CurvatureHistogram(values, c.Int(flagBins), fmt.Sprintf("panel curvature, seed %d", res.Config.Seed))
	if err != nil {
		return err
	}
	format := render.FormatFromPath(out)
	if format == "" {
		format = "png"
	}
	return writeOutput(c, out, func(w io.Writer) error {
		return render.WritePlot(w, p, format)
	})
}

func (r *runner) summaryAction(c *cli.Context) error {
	res, err := r.run(c)
	if err != nil {
		return err
	}
	w := c.App.Writer
	st := res.Stats

	header := color.New(color.Bold)
	header.Fprintf(w, "canopy seed %d, %dx%d panels\n", res.Config.Seed, res.Grid.DivU, res.Grid.DivV)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Quantity", "Value"})
	t.AppendRows([]table.Row{
		{"curvature min", fmt.Sprintf("%.6g", st.CurvatureMin)},
		{"curvature max", fmt.Sprintf("%.6g", st.CurvatureMax)},
		{"curvature mean", fmt.Sprintf("%.6g", st.CurvatureMean)},
		{"curvature median", fmt.Sprintf("%.6g", st.CurvatureMedian)},
		{"panels", st.Panels},
		{"open panels", st.OpenPanels},
		{"anchors", st.Anchors},
		{"segments", st.Segments},
		{"pruned", st.Pruned},
		{"skipped", st.Skipped},
	})
	t.AppendSeparator()
	for _, s := range st.Stages {
		t.AppendRow(table.Row{"time " + string(s.Stage), s.Duration.String()})
	}
	t.Render()

	if st.Anchors < res.Config.Anchors.Count {
		color.New(color.FgYellow).Fprintf(w, "only %d of %d anchors could be placed\n", st.Anchors, res.Config.Anchors.Count)
	}
	if st.Pruned > 0 {
		color.New(color.FgYellow).Fprintf(w, "%d branches pruned by obstacles\n", st.Pruned)
	}

	fmt.Fprintln(w, "panel curvature:")
	return histogram.Fprint(w, histogram.Hist(10, panelCurvatures(res)), histogram.Linear(terminalHistogramWidth))
}

func (r *runner) defaultsAction(c *cli.Context) error {
	format := config.Format(strings.ToLower(c.String(flagFormat)))
	if format != config.FormatJSON && format != config.FormatYAML {
		return errors.Errorf("unknown format %q, expected json or yaml", c.String(flagFormat))
	}
	cfg := config.Default()
	return config.Write(c.App.Writer, &cfg, format)
}

func (r *runner) schemaAction(c *cli.Context) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(config.Schema())
}

func panelCurvatures(res *pipeline.Result) []float64 {
	values := make([]float64, 0, len(res.Panels.Panels))
	for _, p := range res.Panels.Panels {
		values = append(values, p.K)
	}
	return values
}

// writeOutput calls write with the named file, or with the app writer when path is empty.
func writeOutput(c *cli.Context, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(c.App.Writer)
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return write(f)
}
