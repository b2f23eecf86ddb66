package surface

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/canopy/heightfield"
)

// Grid holds a surface sampled on a regular (divU+1)x(divV+1) parameter grid.
// All slices are indexed [i][j] with i along u.
type Grid struct {
	DivU, DivV int
	UV         [][]heightfield.UV
	Points     [][]r3.Vector
	Curvature  [][]float64
}

// Sample evaluates the surface on a regular grid spanning its whole domain.
func Sample(s Surface, divU, divV int) (*Grid, error) {
	uv, err := heightfield.UVGrid(divU, divV)
	if err != nil {
		return nil, err
	}
	du, dv := s.Domain()
	g := &Grid{
		DivU:      divU,
		DivV:      divV,
		UV:        uv,
		Points:    make([][]r3.Vector, divU+1),
		Curvature: make([][]float64, divU+1),
	}
	for i := 0; i <= divU; i++ {
		g.Points[i] = make([]r3.Vector, divV+1)
		g.Curvature[i] = make([]float64, divV+1)
		for j := 0; j <= divV; j++ {
			u := du.At(uv[i][j].U)
			v := dv.At(uv[i][j].V)
			g.Points[i][j] = s.PointAt(u, v)
			k := s.CurvatureAt(u, v)
			if math.IsNaN(k) || math.IsInf(k, 0) {
				k = 0
			}
			g.Curvature[i][j] = k
		}
	}
	return g, nil
}

// Flat returns the grid points in row-major order.
func (g *Grid) Flat() []r3.Vector {
	return lo.Flatten(g.Points)
}

// FlatCurvature returns the curvature samples in row-major order.
func (g *Grid) FlatCurvature() []float64 {
	return lo.Flatten(g.Curvature)
}

// Quad returns the corners of cell (i, j) in the order P[i][j], P[i+1][j], P[i+1][j+1], P[i][j+1].
func (g *Grid) Quad(i, j int) [4]r3.Vector {
	return [4]r3.Vector{g.Points[i][j], g.Points[i+1][j], g.Points[i+1][j+1], g.Points[i][j+1]}
}

// CellCurvature returns the curvature sampled at lattice vertex (i, j).
func (g *Grid) CellCurvature(i, j int) float64 {
	return g.Curvature[i][j]
}
