// Package pipeline runs a full canopy generation: height field, surface, panels, anchors and
// trees.
package pipeline

import (
	"context"
	"image/color"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/canopy/anchor"
	"go.viam.com/canopy/config"
	"go.viam.com/canopy/growth"
	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/panel"
	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/surface"
)

// Result is everything one run produced. It is not modified after Run returns.
type Result struct {
	Config  config.Config
	Field   *heightfield.Field
	Surface surface.Surface
	Grid    *surface.Grid
	Panels  *panel.Set
	Anchors []anchor.Anchor
	Trees   []*growth.Tree
	Stats   Stats
}

type options struct {
	clock   clock.Clock
	surface surface.Surface
	timeout time.Duration
}

// Option configures Run.
type Option func(*options)

// WithClock sets the clock used to time stages and enforce the timeout.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithSurface skips the spline fit and samples s instead.
func WithSurface(s surface.Surface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Run generates a canopy from cfg.
func Run(ctx context.Context, cfg config.Config, logger golog.Logger, opts ...Option) (*Result, error) {
	o := options{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = o.clock.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	res := &Result{Config: cfg}
	timer := newStageTimer(o.clock)

	field, err := heightfield.New(cfg.Heightfield, cfg.Grid.DivU, cfg.Grid.DivV, cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build height field")
	}
	res.Field = field
	timer.done(StageHeightfield)

	if o.surface != nil {
		res.Surface = o.surface
	} else {
		fit, err := surface.Build(field, cfg.Extents, cfg.Surface.Degree)
		if err != nil {
			return nil, errors.Wrap(err, "cannot fit surface")
		}
		res.Surface = fit
	}
	timer.done(StageSurface)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := surface.Sample(res.Surface, cfg.Grid.DivU, cfg.Grid.DivV)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample surface")
	}
	res.Grid = grid
	timer.done(StageSample)
	logger.Debugw("surface sampled", "div_u", grid.DivU, "div_v", grid.DivV)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	var panelTime, treeTime time.Duration
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		start := o.clock.Now()
		set, err := panel.Compute(grid, cfg.Panels.Threshold)
		if err != nil {
			return errors.Wrap(err, "cannot compute panels")
		}
		res.Panels = set
		panelTime = o.clock.Since(start)
		logger.Debugw("panels computed", "panels", len(set.Panels), "open", set.OpenCount())
		return nil
	})
	g.Go(func() error {
		start := o.clock.Now()
		anchors, trees, err := growTrees(gctx, cfg, grid, logger)
		if err != nil {
			return err
		}
		res.Anchors = anchors
		res.Trees = trees
		treeTime = o.clock.Since(start)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timer.add(StagePanels, panelTime)
	timer.add(StageTrees, treeTime)

	res.Stats, err = computeStats(res, timer.stages)
	if err != nil {
		return nil, err
	}
	logger.Infow("canopy generated",
		"open_panels", res.Stats.OpenPanels,
		"anchors", res.Stats.Anchors,
		"segments", res.Stats.Segments,
		"pruned", res.Stats.Pruned)
	return res, nil
}

func growTrees(
	ctx context.Context,
	cfg config.Config,
	grid *surface.Grid,
	logger golog.Logger,
) ([]anchor.Anchor, []*growth.Tree, error) {
	flat := grid.Flat()
	points, err := anchor.Select(flat, cfg.Anchors.Count, cfg.Anchors.MinSpacing)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot select anchors")
	}
	anchors := anchor.Bases(points, cfg.Anchors.BaseOffset)
	logger.Debugw("anchors selected", "count", len(anchors))

	engine, err := growth.NewEngine(cfg.Growth, flat, logger)
	if err != nil {
		return nil, nil, err
	}
	bases := make([]r3.Vector, 0, len(anchors))
	for _, a := range anchors {
		bases = append(bases, a.Base)
	}
	trees, err := engine.GrowAll(ctx, bases, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	return anchors, trees, nil
}

// AnchorPoints returns the selected surface points.
func (r *Result) AnchorPoints() []r3.Vector {
	pts := make([]r3.Vector, 0, len(r.Anchors))
	for _, a := range r.Anchors {
		pts = append(pts, a.Point)
	}
	return pts
}

// Segments returns the segments of every tree, in anchor order.
func (r *Result) Segments() []growth.Segment {
	var segs []growth.Segment
	for _, t := range r.Trees {
		segs = append(segs, t.Segments...)
	}
	return segs
}

// Pipes returns one pipe mesh per segment.
func (r *Result) Pipes() []*spatialmath.Mesh {
	var pipes []*spatialmath.Mesh
	for _, t := range r.Trees {
		pipes = append(pipes, t.Pipes(r.Config.Growth.PipeSides)...)
	}
	return pipes
}

// SegmentColors returns one color per segment.
func (r *Result) SegmentColors() []color.NRGBA {
	var colors []color.NRGBA
	for _, t := range r.Trees {
		colors = append(colors, t.Colors()...)
	}
	return colors
}
