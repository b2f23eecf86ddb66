// Package panel turns a sampled surface grid into quad panels whose openings are sized by
// local Gaussian curvature.
package panel

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/canopy/palette"
	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/surface"
	"go.viam.com/canopy/utils"
)

// Panel is one grid cell of the surface.
type Panel struct {
	I, J int
	// Corners are P[i][j], P[i+1][j], P[i+1][j+1], P[i][j+1].
	Corners [4]r3.Vector
	// K is the mean Gaussian curvature of the four corners.
	K float64
	// T is the opening factor of K within the curvature range of the whole set.
	T float64
	// Opening is the inset polygon, nil when the panel stays solid.
	Opening *[4]r3.Vector
	Color   color.NRGBA
}

// Open reports whether the panel has an opening.
func (p *Panel) Open() bool {
	return p.Opening != nil
}

// Set is the full collection of panels for a grid, in row-major (i, j) order.
type Set struct {
	Panels     []Panel
	Kmin, Kmax float64
	Threshold  float64
	grid       *surface.Grid
}

// ValidateThreshold checks that a threshold lies in [0, 1].
func ValidateThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return errors.Errorf("threshold must be in [0, 1], got %v", threshold)
	}
	return nil
}

// Compute builds one panel per grid cell. A panel whose opening factor is below threshold stays
// solid; at a threshold of 1 every panel stays solid.
func Compute(grid *surface.Grid, threshold float64) (*Set, error) {
	if grid == nil || grid.DivU < 1 || grid.DivV < 1 {
		return nil, errors.New("grid must have at least one cell")
	}
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	panels := make([]Panel, 0, grid.DivU*grid.DivV)
	for i := 0; i < grid.DivU; i++ {
		for j := 0; j < grid.DivV; j++ {
			k := (grid.CellCurvature(i, j) + grid.CellCurvature(i+1, j) +
				grid.CellCurvature(i+1, j+1) + grid.CellCurvature(i, j+1)) / 4
			panels = append(panels, Panel{I: i, J: j, Corners: grid.Quad(i, j), K: k})
		}
	}

	ks := lo.Map(panels, func(p Panel, _ int) float64 { return p.K })
	set := &Set{
		Panels:    panels,
		Kmin:      floats.Min(ks),
		Kmax:      floats.Max(ks),
		Threshold: threshold,
		grid:      grid,
	}
	for idx := range set.Panels {
		p := &set.Panels[idx]
		p.T = OpeningFactor(p.K, set.Kmin, set.Kmax)
		p.Color = palette.Gradient(p.K, set.Kmin, set.Kmax)
		if solid(p.T, threshold) {
			continue
		}
		opening := Inset(p.Corners, p.T)
		p.Opening = &opening
	}
	return set, nil
}

func solid(t, threshold float64) bool {
	return t < threshold || threshold >= 1
}

// OpeningFactor normalizes k into [0, 1] over [kMin, kMax]. An empty range gives 0.
func OpeningFactor(k, kMin, kMax float64) float64 {
	if utils.Float64AlmostEqual(kMax, kMin, utils.CurvatureRangeEpsilon) {
		return 0
	}
	return utils.Clamp01((k - kMin) / (kMax - kMin))
}

// Centroid returns the average of the four corners.
func Centroid(corners [4]r3.Vector) r3.Vector {
	return corners[0].Add(corners[1]).Add(corners[2]).Add(corners[3]).Mul(0.25)
}

// Inset moves every corner a fraction t of the way toward the centroid.
func Inset(corners [4]r3.Vector, t float64) [4]r3.Vector {
	c := Centroid(corners)
	var out [4]r3.Vector
	for i, p := range corners {
		out[i] = spatialmath.LerpPoint(p, c, t)
	}
	return out
}

// BaseQuads returns the corners of every panel.
func (s *Set) BaseQuads() [][4]r3.Vector {
	return lo.Map(s.Panels, func(p Panel, _ int) [4]r3.Vector { return p.Corners })
}

// Openings returns one entry per panel, nil where the panel is solid.
func (s *Set) Openings() []*[4]r3.Vector {
	return lo.Map(s.Panels, func(p Panel, _ int) *[4]r3.Vector { return p.Opening })
}

// Colors returns the display color of every panel.
func (s *Set) Colors() []color.NRGBA {
	return lo.Map(s.Panels, func(p Panel, _ int) color.NRGBA { return p.Color })
}

// OpenCount returns the number of panels with an opening.
func (s *Set) OpenCount() int {
	return lo.CountBy(s.Panels, func(p Panel) bool { return p.Open() })
}

// Opened returns the panels that have an opening.
func (s *Set) Opened() []Panel {
	return lo.Filter(s.Panels, func(p Panel, _ int) bool { return p.Open() })
}

// Edges returns the wireframe of the grid: every horizontal and vertical cell edge once.
func (s *Set) Edges() []spatialmath.Line {
	pts := s.grid.Points
	var edges []spatialmath.Line
	for i := 0; i <= s.grid.DivU; i++ {
		for j := 0; j <= s.grid.DivV; j++ {
			if i < s.grid.DivU {
				edges = append(edges, spatialmath.Line{From: pts[i][j], To: pts[i+1][j]})
			}
			if j < s.grid.DivV {
				edges = append(edges, spatialmath.Line{From: pts[i][j], To: pts[i][j+1]})
			}
		}
	}
	return edges
}

// Mesh returns the triangulated surface grid.
func (s *Set) Mesh() *spatialmath.Mesh {
	return spatialmath.QuadMesh(s.grid.Points)
}
