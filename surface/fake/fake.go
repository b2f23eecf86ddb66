// Package fake provides closed-form surfaces with analytic curvature for testing.
package fake

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/surface"
)

// Monge is a graph surface z = f(x, y) over a rectangle, parameterized by
// (u, v) in [0,1]x[0,1] as x = u*SizeX, y = v*SizeY.
type Monge struct {
	SizeX, SizeY float64
	ZOffset      float64
	// HeightFunc returns f and its partial derivatives in x and y up to second order.
	HeightFunc func(x, y float64) (f, fx, fy, fxx, fxy, fyy float64)
}

var _ surface.Surface = (*Monge)(nil)

// Domain returns the unit parameter square.
func (m *Monge) Domain() (surface.Interval, surface.Interval) {
	return surface.Interval{Min: 0, Max: 1}, surface.Interval{Min: 0, Max: 1}
}

// PointAt returns the point at (u, v).
func (m *Monge) PointAt(u, v float64) r3.Vector {
	x, y := m.xy(u, v)
	f, _, _, _, _, _ := m.HeightFunc(x, y)
	return r3.Vector{X: x, Y: y, Z: f + m.ZOffset}
}

// CurvatureAt returns the analytic Gaussian curvature at (u, v).
func (m *Monge) CurvatureAt(u, v float64) float64 {
	x, y := m.xy(u, v)
	_, fx, fy, fxx, fxy, fyy := m.HeightFunc(x, y)
	den := 1 + fx*fx + fy*fy
	k := (fxx*fyy - fxy*fxy) / (den * den)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}

func (m *Monge) xy(u, v float64) (float64, float64) {
	unit := surface.Interval{Min: 0, Max: 1}
	return unit.Clamp(u) * m.SizeX, unit.Clamp(v) * m.SizeY
}

// NewWave returns the noiseless sinusoidal canopy surface described by cfg laid out over ext.
func NewWave(cfg heightfield.Config, ext surface.Extents) *Monge {
	w := 2 * math.Pi * cfg.Frequency
	wx := w / ext.SizeX
	wy := w / ext.SizeY
	amp := cfg.Amplitude
	return &Monge{
		SizeX:   ext.SizeX,
		SizeY:   ext.SizeY,
		ZOffset: ext.ZOffset,
		HeightFunc: func(x, y float64) (float64, float64, float64, float64, float64, float64) {
			sa, ca := math.Sincos(wx*x + cfg.Phase)
			sb, cb := math.Sincos(wy*y + cfg.Phase)
			return amp * sa * cb,
				amp * wx * ca * cb,
				-amp * wy * sa * sb,
				-amp * wx * wx * sa * cb,
				-amp * wx * wy * ca * sb,
				-amp * wy * wy * sa * cb
		},
	}
}

// NewParaboloid returns z = a(x^2 + y^2) over [-half, half]^2, shifted so the origin sits at the
// center of the parameter square.
func NewParaboloid(a, half float64) *Monge {
	return &Monge{
		SizeX: 2 * half,
		SizeY: 2 * half,
		HeightFunc: func(x, y float64) (float64, float64, float64, float64, float64, float64) {
			x -= half
			y -= half
			return a * (x*x + y*y), 2 * a * x, 2 * a * y, 2 * a, 0, 2 * a
		},
	}
}

// NewPlane returns the flat plane z = 0 over sizeX x sizeY.
func NewPlane(sizeX, sizeY float64) *Monge {
	return &Monge{
		SizeX: sizeX,
		SizeY: sizeY,
		HeightFunc: func(x, y float64) (float64, float64, float64, float64, float64, float64) {
			return 0, 0, 0, 0, 0, 0
		},
	}
}
