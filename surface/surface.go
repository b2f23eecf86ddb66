// Package surface fits a smooth surface through the canopy point grid and answers point and
// curvature queries on it.
//
// The engines downstream only depend on the Surface interface, so a closed-form double (see
// the fake package) can stand in for the fitted spline in tests.
package surface

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/utils"
)

// Surface is a parametric surface that can be evaluated anywhere inside its domain.
type Surface interface {
	// PointAt returns the point at (u, v). Parameters outside the domain are clamped to it.
	PointAt(u, v float64) r3.Vector
	// CurvatureAt returns the Gaussian curvature at (u, v), or 0 where it is undefined.
	CurvatureAt(u, v float64) float64
	// Domain returns the parameter intervals along u and v.
	Domain() (Interval, Interval)
}

// Interval is a closed parameter interval.
type Interval struct {
	Min, Max float64
}

// At returns the parameter a fraction t of the way through the interval.
func (i Interval) At(t float64) float64 {
	return i.Min + (i.Max-i.Min)*t
}

// Clamp clamps x into the interval.
func (i Interval) Clamp(x float64) float64 {
	return math.Max(i.Min, math.Min(i.Max, x))
}

// Extents sets the physical size of the surface.
type Extents struct {
	SizeX   float64 `json:"size_x" yaml:"size_x"`
	SizeY   float64 `json:"size_y" yaml:"size_y"`
	ZOffset float64 `json:"z_offset" yaml:"z_offset"`
}

// Validate ensures all parts of the config are valid.
func (ext *Extents) Validate(path string) error {
	if ext.SizeX <= 0 {
		return utils.NewConfigValidationRangeError(path, "size_x", ext.SizeX, "> 0")
	}
	if ext.SizeY <= 0 {
		return utils.NewConfigValidationRangeError(path, "size_y", ext.SizeY, "> 0")
	}
	return nil
}

// PointGrid lays the height field out in space: P[i][j] = (u*sizeX, v*sizeY, h(i,j)+zOffset).
func PointGrid(field *heightfield.Field, ext Extents) [][]r3.Vector {
	divU, divV := field.Dims()
	pts := make([][]r3.Vector, divU+1)
	for i := range pts {
		pts[i] = make([]r3.Vector, divV+1)
		u := float64(i) / float64(divU)
		for j := range pts[i] {
			v := float64(j) / float64(divV)
			pts[i][j] = r3.Vector{
				X: u * ext.SizeX,
				Y: v * ext.SizeY,
				Z: field.HeightAt(i, j) + ext.ZOffset,
			}
		}
	}
	return pts
}

// Build lays out the height field and fits a surface of the given degree through it.
func Build(field *heightfield.Field, ext Extents, degree int) (*BSpline, error) {
	if err := ext.Validate("extents"); err != nil {
		return nil, err
	}
	return Fit(PointGrid(field, ext), degree)
}

// flatTolerance bounds LN - M^2 relative to the area element |su x sv| below which a surface is
// treated as flat. Fitted planes land around 1e-26 here.
const flatTolerance = 1e-12

// GaussianCurvature computes the Gaussian curvature from the first and second partial
// derivatives of a parametric surface. It returns 0 when the first fundamental form is
// degenerate, when the second fundamental form vanishes up to rounding, or when the result is
// not finite.
func GaussianCurvature(su, sv, suu, suv, svv r3.Vector) float64 {
	n := su.Cross(sv)
	// |su x sv|^2 == EG - F^2
	det := n.Norm2()
	if det < 1e-18 {
		return 0
	}
	area := math.Sqrt(det)
	unit := n.Mul(1 / area)
	l := suu.Dot(unit)
	m := suv.Dot(unit)
	nn := svv.Dot(unit)
	num := l*nn - utils.Square(m)
	if math.Abs(num) <= flatTolerance*area {
		return 0
	}
	k := num / det
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}
