package growth

import (
	"context"
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/test"

	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/palette"
	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/surface"
	"go.viam.com/canopy/surface/fake"
	"go.viam.com/canopy/utils"
)

func sampleGrid(t *testing.T) []r3.Vector {
	t.Helper()
	s := fake.NewWave(heightfield.Config{Amplitude: 1, Frequency: 2}, surface.Extents{SizeX: 20, SizeY: 20, ZOffset: 5})
	g, err := surface.Sample(s, 10, 10)
	test.That(t, err, test.ShouldBeNil)
	return g.Flat()
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, []r3.Vector) {
	t.Helper()
	grid := sampleGrid(t)
	e, err := NewEngine(cfg, grid, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return e, grid
}

var testBases = []r3.Vector{{X: 2, Y: 2, Z: -1}, {X: 10, Y: 4, Z: 0}, {X: 16, Y: 15, Z: -0.5}, {X: 5, Y: 17, Z: 1}}

func TestSteerHeading(t *testing.T) {
	test.That(t, SteerHeading(350, 10, 0.5), test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, SteerHeading(10, 350, 0.5), test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, SteerHeading(90, 180, 1), test.ShouldAlmostEqual, 180., 1e-9)
	test.That(t, SteerHeading(90, 180, 0), test.ShouldAlmostEqual, 90., 1e-9)
	test.That(t, SteerHeading(0, 180, 0.5), test.ShouldAlmostEqual, 270., 1e-9)
	test.That(t, Azimuth(r3.Vector{X: 0, Y: -1}), test.ShouldAlmostEqual, 270., 1e-9)
}

func TestSteer(t *testing.T) {
	got := steer(r3.Vector{X: 1}, r3.Vector{}, r3.Vector{Y: 5, Z: 3}, 1)
	test.That(t, got.X, test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, 1., 1e-9)

	// vertical directions and an attractor straight above have no heading
	up := r3.Vector{Z: 2}
	test.That(t, steer(up, r3.Vector{}, r3.Vector{X: 4}, 1), test.ShouldResemble, up)
	side := r3.Vector{X: 1, Z: 1}
	test.That(t, steer(side, r3.Vector{X: 3, Y: 3}, r3.Vector{X: 3, Y: 3, Z: 9}, 1), test.ShouldResemble, side)

	half := steer(r3.Vector{X: 1, Z: 1}, r3.Vector{}, r3.Vector{Y: 5}, 0.5)
	test.That(t, half.Z, test.ShouldAlmostEqual, 1., 1e-9)
	test.That(t, Azimuth(half), test.ShouldAlmostEqual, 45., 1e-9)
}

func TestAdvance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Randomness = 0
	cfg.SteerStrength = 0
	cfg.StepVariationMin = 1
	cfg.StepVariationMax = 1
	e, _ := newTestEngine(t, cfg)

	s := State{Dir: r3.Vector{X: 0, Y: 3, Z: 4}, Base: r3.Vector{X: 1, Y: 1, Z: 1}, Depth: 2, Length: 10}
	next, ok := e.advance(s, utils.NewRand(1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, next.Base.Sub(r3.Vector{X: 1, Y: 7, Z: 9}).Norm(), test.ShouldBeLessThan, 1e-9)
	test.That(t, next.Dir.Norm(), test.ShouldAlmostEqual, 1., 1e-12)
	// the input state is untouched
	test.That(t, s.Base, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})

	cfg = DefaultConfig()
	e, _ = newTestEngine(t, cfg)
	a, okA := e.advance(s, utils.NewRand(7))
	b, okB := e.advance(s, utils.NewRand(7))
	test.That(t, okA, test.ShouldBeTrue)
	test.That(t, okB, test.ShouldBeTrue)
	test.That(t, a, test.ShouldResemble, b)
	step := a.Base.Sub(s.Base).Norm()
	test.That(t, step, test.ShouldBeGreaterThanOrEqualTo, 8.5-1e-9)
	test.That(t, step, test.ShouldBeLessThanOrEqualTo, 11.5+1e-9)
	test.That(t, a.Dir.Z, test.ShouldBeGreaterThanOrEqualTo, 0.)

	// upward growth mirrors downward candidates
	cfg.Randomness = 0
	e, _ = newTestEngine(t, cfg)
	down, ok := e.advance(State{Dir: r3.Vector{X: 1, Z: -1}, Base: r3.Vector{X: 10, Y: 10}, Length: 1}, utils.NewRand(1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, down.Dir.Z, test.ShouldBeGreaterThan, 0.)

	_, ok = e.advance(State{Dir: r3.Vector{}, Length: 1}, utils.NewRand(1))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestNearest(t *testing.T) {
	e, grid := newTestEngine(t, DefaultConfig())
	rng := utils.NewRand(3)
	for i := 0; i < 50; i++ {
		q := r3.Vector{X: rng.Float64() * 20, Y: rng.Float64() * 20, Z: rng.Float64() * 10}
		want := lo.MinBy(grid, func(a, b r3.Vector) bool { return a.Distance(q) < b.Distance(q) })
		got := e.Nearest(q)
		test.That(t, got.Distance(q), test.ShouldAlmostEqual, want.Distance(q), 1e-12)
		test.That(t, lo.Contains(grid, got), test.ShouldBeTrue)
	}
}

func TestLevelsOneSnapsToGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = 1
	e, grid := newTestEngine(t, cfg)
	for i, base := range testBases {
		tree := e.Grow(base, utils.NewRand(int64(i)))
		test.That(t, tree.Segments, test.ShouldNotBeEmpty)
		test.That(t, len(tree.Segments), test.ShouldBeLessThanOrEqualTo, 1+cfg.FirstLevelMaxBranches)
		trunk := tree.Segments[0]
		test.That(t, trunk.Level, test.ShouldEqual, 0)
		test.That(t, trunk.Parent, test.ShouldEqual, -1)
		test.That(t, trunk.To, test.ShouldResemble, base.Add(r3.Vector{Z: cfg.TrunkLength}))
		for _, seg := range tree.Segments[1:] {
			test.That(t, seg.Level, test.ShouldEqual, 1)
			test.That(t, seg.Parent, test.ShouldEqual, 0)
			test.That(t, seg.From, test.ShouldResemble, trunk.To)
			test.That(t, lo.Contains(grid, seg.To), test.ShouldBeTrue)
		}
	}
}

func TestLevelsZeroIsTrunkOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = 0
	e, _ := newTestEngine(t, cfg)
	tree := e.Grow(r3.Vector{X: 3, Y: 3}, utils.NewRand(1))
	test.That(t, len(tree.Segments), test.ShouldEqual, 1)
}

func TestPathLengthBound(t *testing.T) {
	for _, levels := range []int{1, 2, 3, 4} {
		cfg := DefaultConfig()
		cfg.Levels = levels
		e, grid := newTestEngine(t, cfg)
		for i, base := range testBases {
			tree := e.Grow(base, utils.NewRand(int64(10*levels+i)))
			for idx, seg := range tree.Segments {
				test.That(t, tree.PathLength(idx), test.ShouldBeLessThanOrEqualTo, levels+1)
				test.That(t, tree.PathLength(idx), test.ShouldEqual, seg.Level+1)
				test.That(t, seg.Radius, test.ShouldAlmostEqual, cfg.TrunkRadius*math.Pow(cfg.RadiusReduction, float64(seg.Level)), 1e-12)
			}
			for _, leaf := range tree.Leaves() {
				seg := tree.Segments[leaf]
				if seg.Level == levels {
					test.That(t, lo.Contains(grid, seg.To), test.ShouldBeTrue)
				}
			}
		}
	}
}

func TestObstacles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = 4
	cfg.Obstacles = []spatialmath.PlanBox{
		spatialmath.NewPlanBox(r2.Point{X: 7, Y: 7}, r2.Point{X: 12, Y: 12}),
		spatialmath.NewPlanBox(r2.Point{X: 0, Y: 12}, r2.Point{X: 3, Y: 14}),
	}
	e, _ := newTestEngine(t, cfg)
	pruned := 0
	// the last base sits inside the first box
	for i, base := range append(testBases, r3.Vector{X: 9, Y: 9}) {
		tree := e.Grow(base, utils.NewRand(int64(i)))
		pruned += tree.Pruned
		for _, seg := range tree.Segments {
			for _, box := range cfg.Obstacles {
				test.That(t, box.IntersectsSegment(seg.From, seg.To), test.ShouldBeFalse)
			}
		}
	}
	test.That(t, pruned, test.ShouldBeGreaterThan, 0)
}

func TestTrunkBlocked(t *testing.T) {
	cfg := DefaultConfig()
	base := r3.Vector{X: 5, Y: 5, Z: 0}
	cfg.Obstacles = []spatialmath.PlanBox{spatialmath.NewPlanBox(r2.Point{X: 4, Y: 4}, r2.Point{X: 6, Y: 6})}
	e, _ := newTestEngine(t, cfg)
	tree := e.Grow(base, utils.NewRand(28))
	test.That(t, tree.Segments, test.ShouldBeEmpty)
	test.That(t, tree.Pruned, test.ShouldEqual, 1)
	test.That(t, e.Blocked(base, base.Add(r3.Vector{Z: 5})), test.ShouldBeTrue)
}

func TestGrowDeterministic(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	a := e.Grow(testBases[1], utils.NewRand(28))
	b := e.Grow(testBases[1], utils.NewRand(28))
	test.That(t, a, test.ShouldResemble, b)
	c := e.Grow(testBases[1], utils.NewRand(29))
	test.That(t, c, test.ShouldNotResemble, a)
}

func TestGrowAll(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	trees, err := e.GrowAll(context.Background(), testBases, 28)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(trees), test.ShouldEqual, len(testBases))
	for i, base := range testBases {
		test.That(t, trees[i], test.ShouldResemble, e.Grow(base, utils.NewRand(utils.SubSeed(28, i))))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.GrowAll(ctx, testBases, 28)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestTreeOutputs(t *testing.T) {
	cfg := DefaultConfig()
	e, _ := newTestEngine(t, cfg)
	tree := e.Grow(testBases[0], utils.NewRand(5))
	test.That(t, len(tree.Lines()), test.ShouldEqual, len(tree.Segments))
	pipes := tree.Pipes(cfg.PipeSides)
	test.That(t, len(pipes), test.ShouldEqual, len(tree.Segments))
	test.That(t, len(pipes[0].Vertices), test.ShouldEqual, 2*cfg.PipeSides)
	colors := tree.Colors()
	test.That(t, colors[0], test.ShouldResemble, palette.LevelColor(0))
	for i, seg := range tree.Segments {
		test.That(t, colors[i], test.ShouldResemble, palette.LevelColor(seg.Level))
	}
	test.That(t, tree.Leaves(), test.ShouldNotBeEmpty)
}

func TestNewEngineErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)
	_, err := NewEngine(DefaultConfig(), nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty")

	cfg := DefaultConfig()
	cfg.TrunkDirection = r3.Vector{}
	_, err = NewEngine(cfg, sampleGrid(t), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "trunk_direction")
}

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"trunk length", func(c *Config) { c.TrunkLength = 0 }, "trunk_length"},
		{"levels", func(c *Config) { c.Levels = -1 }, "levels"},
		{"branch range", func(c *Config) { c.FirstLevelMaxBranches = 1 }, "first_level_max_branches"},
		{"angle range", func(c *Config) { c.BranchAngleMin = 50 }, "branch_angle_max"},
		{"length factor", func(c *Config) { c.LengthFactor = -1 }, "length_factor"},
		{"pipe sides", func(c *Config) { c.PipeSides = 2 }, "pipe_sides"},
		{"steer", func(c *Config) { c.SteerStrength = 2 }, "steer_strength"},
		{"step", func(c *Config) { c.StepVariationMax = 0.5 }, "step_variation"},
		{"obstacle", func(c *Config) {
			c.Obstacles = []spatialmath.PlanBox{{Min: r2.Point{X: 1}, Max: r2.Point{X: 0}}}
		}, "obstacle 0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate("growth")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.field)
			test.That(t, err.Error(), test.ShouldContainSubstring, `"growth"`)
		})
	}
	cfg := DefaultConfig()
	test.That(t, cfg.Validate("growth"), test.ShouldBeNil)
}
