// Package growth grows branching support trees from anchor bases toward the canopy surface.
//
// A tree starts with a trunk, fans out into a ring of first level branches, and then
// recurses: every branch steers toward an attractor, splits in two, and its last level is
// snapped onto the nearest point of the surface sampling grid. Branches that would cross an
// obstacle are pruned. All randomness comes from the generator passed to Grow.
package growth

import (
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"

	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/utils"
)

// State is a branch about to grow.
type State struct {
	// Dir is the nominal growth direction.
	Dir  r3.Vector
	Base r3.Vector
	// Depth is the number of segments this branch may still add.
	Depth  int
	Radius float64
	Level  int
	// Length is the nominal step length.
	Length float64
	// Parent is the index of the segment the branch grows from.
	Parent int
}

// Engine grows trees over a fixed sampling grid.
type Engine struct {
	cfg    Config
	grid   *kdtree.Tree
	logger golog.Logger
}

// NewEngine validates cfg and indexes the sampling grid used to snap the last branch level.
func NewEngine(cfg Config, grid []r3.Vector, logger golog.Logger) (*Engine, error) {
	if err := cfg.Validate("growth"); err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, errors.New("sampling grid is empty")
	}
	// kdtree.New reorders its input
	pts := make(kdtree.Points, 0, len(grid))
	for _, p := range grid {
		pts = append(pts, kdtree.Point{p.X, p.Y, p.Z})
	}
	return &Engine{cfg: cfg, grid: kdtree.New(pts, false), logger: logger}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Nearest returns the sampling grid point closest to p.
func (e *Engine) Nearest(p r3.Vector) r3.Vector {
	got, _ := e.grid.Nearest(kdtree.Point{p.X, p.Y, p.Z})
	q := got.(kdtree.Point)
	return r3.Vector{X: q[0], Y: q[1], Z: q[2]}
}

// Blocked reports whether the segment a -> b crosses any obstacle.
func (e *Engine) Blocked(a, b r3.Vector) bool {
	for _, box := range e.cfg.Obstacles {
		if box.IntersectsSegment(a, b) {
			return true
		}
	}
	return false
}

// Grow grows one tree from base.
func (e *Engine) Grow(base r3.Vector, rng *rand.Rand) *Tree {
	tree := &Tree{Base: base}
	for _, box := range e.cfg.Obstacles {
		if box.ContainsPoint(base) {
			e.logger.Debugw("base inside obstacle", "base", base)
			tree.Pruned++
			return tree
		}
	}
	trunkDir := e.cfg.TrunkDirection.Normalize()
	top := base.Add(trunkDir.Mul(e.cfg.TrunkLength))
	if e.Blocked(base, top) {
		e.logger.Debugw("trunk blocked by obstacle", "base", base)
		tree.Pruned++
		return tree
	}
	trunk := tree.emit(Segment{From: base, To: top, Level: 0, Radius: e.cfg.TrunkRadius, Parent: -1})

	for _, dir := range e.ring(trunkDir, rng) {
		e.branch(tree, State{
			Dir:    dir,
			Base:   top,
			Depth:  e.cfg.Levels,
			Radius: e.cfg.TrunkRadius * e.cfg.RadiusReduction,
			Level:  1,
			Length: e.cfg.TrunkLength * e.cfg.FirstLevelLengthFactor,
			Parent: trunk,
		}, rng)
	}
	return tree
}

// ring returns the first level directions: evenly spaced around the trunk and tilted away from
// it by one shared random spread angle.
func (e *Engine) ring(trunkDir r3.Vector, rng *rand.Rand) []r3.Vector {
	n := utils.SampleRandomIntRange(e.cfg.FirstLevelMinBranches, e.cfg.FirstLevelMaxBranches, rng)
	spread := utils.SampleRandomFloatRange(e.cfg.FirstLevelAngleMin, e.cfg.FirstLevelAngleMax, rng)
	tilted := spatialmath.RotateAboutAxis(trunkDir, spatialmath.PerpendicularAxis(trunkDir), utils.DegToRad(spread))
	dirs := make([]r3.Vector, 0, n)
	for i := 0; i < n; i++ {
		dirs = append(dirs, spatialmath.RotateAboutAxis(tilted, trunkDir, 2*math.Pi*float64(i)/float64(n)))
	}
	return dirs
}

// advance computes where a branch goes next: the returned state sits at the candidate point
// with the unit direction that reached it. It is false when the direction degenerates.
func (e *Engine) advance(s State, rng *rand.Rand) (State, bool) {
	dir := steer(s.Dir, s.Base, e.cfg.Attractor, e.cfg.SteerStrength)
	if n := dir.Norm(); n > 0 {
		dir = dir.Mul(s.Length / n)
	}
	dir = dir.Add(r3.Vector{
		X: (rng.Float64() - 0.5) * e.cfg.Randomness,
		Y: (rng.Float64() - 0.5) * e.cfg.Randomness,
		Z: (rng.Float64() - 0.5) * e.cfg.Randomness * 0.3,
	})
	if e.cfg.UpwardOnly && dir.Z < 0 {
		dir.Z = -dir.Z
	}
	step := s.Length * utils.SampleRandomFloatRange(e.cfg.StepVariationMin, e.cfg.StepVariationMax, rng)
	if dir.Norm() < 1e-9 || step < 1e-9 {
		return s, false
	}
	dir = dir.Normalize()

	next := s
	next.Dir = dir
	next.Base = s.Base.Add(dir.Mul(step))
	return next, true
}

func (e *Engine) branch(tree *Tree, s State, rng *rand.Rand) {
	if s.Depth <= 0 {
		return
	}
	next, ok := e.advance(s, rng)
	if !ok {
		e.logger.Debugw("degenerate branch direction", "level", s.Level)
		tree.Skipped++
		return
	}

	if s.Depth == 1 {
		end := e.Nearest(next.Base)
		if end.Sub(s.Base).Norm() < 1e-9 {
			tree.Skipped++
			return
		}
		if e.Blocked(s.Base, end) {
			e.logger.Debugw("leaf blocked by obstacle", "level", s.Level, "to", end)
			tree.Pruned++
			return
		}
		tree.emit(Segment{From: s.Base, To: end, Level: s.Level, Radius: s.Radius, Parent: s.Parent})
		return
	}

	if e.Blocked(s.Base, next.Base) {
		e.logger.Debugw("branch blocked by obstacle", "level", s.Level, "to", next.Base)
		tree.Pruned++
		return
	}
	idx := tree.emit(Segment{From: s.Base, To: next.Base, Level: s.Level, Radius: s.Radius, Parent: s.Parent})

	axis := spatialmath.PerpendicularAxis(next.Dir)
	for _, sign := range []float64{1, -1} {
		angle := utils.SampleRandomFloatRange(e.cfg.BranchAngleMin, e.cfg.BranchAngleMax, rng) +
			utils.SampleRandomFloatRange(-e.cfg.AngleJitter, e.cfg.AngleJitter, rng)
		e.branch(tree, State{
			Dir:    spatialmath.RotateAboutAxis(next.Dir, axis, utils.DegToRad(sign*angle)),
			Base:   next.Base,
			Depth:  s.Depth - 1,
			Radius: s.Radius * e.cfg.RadiusReduction,
			Level:  s.Level + 1,
			Length: s.Length * e.cfg.LengthFactor,
			Parent: idx,
		}, rng)
	}
}
