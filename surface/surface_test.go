package surface_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/surface"
	"go.viam.com/canopy/surface/fake"
)

func gridOf(n int, f func(x, y float64) float64) [][]r3.Vector {
	pts := make([][]r3.Vector, n)
	for i := range pts {
		pts[i] = make([]r3.Vector, n)
		for j := range pts[i] {
			x := -1 + 2*float64(i)/float64(n-1)
			y := -1 + 2*float64(j)/float64(n-1)
			pts[i][j] = r3.Vector{X: x, Y: y, Z: f(x, y)}
		}
	}
	return pts
}

func TestFitInterpolates(t *testing.T) {
	pts := gridOf(6, func(x, y float64) float64 { return math.Sin(2*x) * math.Cos(y) })
	s, err := surface.Fit(pts, surface.DefaultDegree)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Degree(), test.ShouldEqual, 3)
	for i := range pts {
		for j := range pts[i] {
			got := s.PointAt(float64(i)/5, float64(j)/5)
			test.That(t, got.Sub(pts[i][j]).Norm(), test.ShouldBeLessThan, 1e-9)
		}
	}
}

func TestFitParaboloidCurvature(t *testing.T) {
	pts := gridOf(7, func(x, y float64) float64 { return x*x + y*y })
	s, err := surface.Fit(pts, 3)
	test.That(t, err, test.ShouldBeNil)
	for _, uv := range [][2]float64{{0.5, 0.5}, {0.1, 0.8}, {0.33, 0.27}, {1, 1}} {
		x := -1 + 2*uv[0]
		y := -1 + 2*uv[1]
		want := 4 / math.Pow(1+4*x*x+4*y*y, 2)
		test.That(t, s.CurvatureAt(uv[0], uv[1]), test.ShouldAlmostEqual, want, 1e-6)
	}
}

func TestFitSaddleCurvature(t *testing.T) {
	pts := gridOf(5, func(x, y float64) float64 { return x * y })
	s, err := surface.Fit(pts, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.CurvatureAt(0.5, 0.5), test.ShouldAlmostEqual, -1., 1e-6)
	test.That(t, s.PointAt(0.75, 0.75).Z, test.ShouldAlmostEqual, 0.25, 1e-9)
}

func TestFitPlaneHasZeroCurvature(t *testing.T) {
	pts := gridOf(4, func(x, y float64) float64 { return 0.5*x - y + 2 })
	s, err := surface.Fit(pts, 3)
	test.That(t, err, test.ShouldBeNil)
	for _, uv := range [][2]float64{{0.3, 0.6}, {0, 0}, {0.5, 0.5}, {1, 0.2}} {
		test.That(t, s.CurvatureAt(uv[0], uv[1]), test.ShouldEqual, 0.)
	}
}

func TestBuildFlatFieldHasZeroCurvature(t *testing.T) {
	field, err := heightfield.New(heightfield.Config{Amplitude: 0, Frequency: 2}, 10, 10, 28)
	test.That(t, err, test.ShouldBeNil)
	s, err := surface.Build(field, surface.Extents{SizeX: 20, SizeY: 20, ZOffset: 5}, surface.DefaultDegree)
	test.That(t, err, test.ShouldBeNil)
	g, err := surface.Sample(s, 10, 10)
	test.That(t, err, test.ShouldBeNil)
	for _, k := range g.FlatCurvature() {
		test.That(t, k, test.ShouldEqual, 0.)
	}
	test.That(t, g.CellCurvature(3, 4), test.ShouldEqual, 0.)
}

func TestFitErrors(t *testing.T) {
	_, err := surface.Fit(nil, 3)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = surface.Fit(gridOf(3, func(x, y float64) float64 { return 0 }), 3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "degree 3")

	_, err = surface.Fit(gridOf(4, func(x, y float64) float64 { return 0 }), 0)
	test.That(t, err, test.ShouldNotBeNil)

	ragged := gridOf(4, func(x, y float64) float64 { return 0 })
	ragged[2] = ragged[2][:3]
	_, err = surface.Fit(ragged, 3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "row 2")

	// lower degree works on small grids
	_, err = surface.Fit(gridOf(2, func(x, y float64) float64 { return x }), 1)
	test.That(t, err, test.ShouldBeNil)
}

func TestFitMatchesAnalyticWave(t *testing.T) {
	cfg := heightfield.Config{Amplitude: 1, Frequency: 1}
	ext := surface.Extents{SizeX: 20, SizeY: 20, ZOffset: 5}
	field, err := heightfield.New(cfg, 40, 40, 0)
	test.That(t, err, test.ShouldBeNil)
	s, err := surface.Build(field, ext, 3)
	test.That(t, err, test.ShouldBeNil)

	want := fake.NewWave(cfg, ext)
	got := s.CurvatureAt(0.25, 0.5)
	exp := want.CurvatureAt(0.25, 0.5)
	test.That(t, exp, test.ShouldBeGreaterThan, 0.)
	test.That(t, math.Abs(got-exp)/exp, test.ShouldBeLessThan, 0.02)

	p := s.PointAt(0.3, 0.7)
	q := want.PointAt(0.3, 0.7)
	test.That(t, p.Sub(q).Norm(), test.ShouldBeLessThan, 1e-3)
}

func TestBuildValidatesExtents(t *testing.T) {
	field, err := heightfield.New(heightfield.Config{Amplitude: 1, Frequency: 1}, 4, 4, 0)
	test.That(t, err, test.ShouldBeNil)
	_, err = surface.Build(field, surface.Extents{SizeX: 0, SizeY: 1}, 3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "size_x")
}

func TestPointGrid(t *testing.T) {
	field, err := heightfield.New(heightfield.Config{Amplitude: 2, Frequency: 1}, 4, 2, 0)
	test.That(t, err, test.ShouldBeNil)
	pts := surface.PointGrid(field, surface.Extents{SizeX: 8, SizeY: 4, ZOffset: 1})
	test.That(t, len(pts), test.ShouldEqual, 5)
	test.That(t, len(pts[0]), test.ShouldEqual, 3)
	test.That(t, pts[1][1].X, test.ShouldAlmostEqual, 2.)
	test.That(t, pts[1][1].Y, test.ShouldAlmostEqual, 2.)
	test.That(t, pts[1][1].Z, test.ShouldAlmostEqual, field.HeightAt(1, 1)+1)
}

func TestSample(t *testing.T) {
	p := fake.NewParaboloid(1, 1)
	g, err := surface.Sample(p, 4, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.DivU, test.ShouldEqual, 4)
	test.That(t, len(g.Points), test.ShouldEqual, 5)
	test.That(t, len(g.Points[0]), test.ShouldEqual, 3)
	test.That(t, len(g.Flat()), test.ShouldEqual, 15)
	test.That(t, len(g.FlatCurvature()), test.ShouldEqual, 15)
	test.That(t, g.Curvature[2][1], test.ShouldAlmostEqual, 4.)
	test.That(t, g.Flat()[1*3+2], test.ShouldResemble, g.Points[1][2])
	q := g.Quad(0, 0)
	test.That(t, q[1], test.ShouldResemble, g.Points[1][0])
	test.That(t, q[3], test.ShouldResemble, g.Points[0][1])

	_, err = surface.Sample(p, 0, 2)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGaussianCurvatureDegenerate(t *testing.T) {
	su := r3.Vector{X: 1}
	test.That(t, surface.GaussianCurvature(su, su, r3.Vector{Z: 1}, r3.Vector{}, r3.Vector{Z: 1}), test.ShouldEqual, 0.)

	su = r3.Vector{X: 20}
	sv := r3.Vector{Y: 20}
	rounding := r3.Vector{X: 1e-13, Z: 1e-13}
	test.That(t, surface.GaussianCurvature(su, sv, rounding, rounding, rounding.Mul(-1)), test.ShouldEqual, 0.)

	bend := r3.Vector{Z: 1e-3}
	test.That(t, surface.GaussianCurvature(su, sv, bend, r3.Vector{}, bend), test.ShouldAlmostEqual, 1e-6/160000, 1e-18)
}
