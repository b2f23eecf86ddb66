// Package heightfield generates the scalar height values that shape the canopy surface.
//
// The field is a product of sines over UV space with an optional per-cell noise
// term. A Field is immutable once built; the same configuration and seed always
// yield the same values bit for bit.
package heightfield

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/canopy/utils"
)

// Config describes the shape of the height field.
type Config struct {
	Amplitude     float64 `json:"amplitude" yaml:"amplitude"`
	Frequency     float64 `json:"frequency" yaml:"frequency"`
	Phase         float64 `json:"phase" yaml:"phase"`
	NoiseStrength float64 `json:"noise_strength" yaml:"noise_strength"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if math.IsNaN(cfg.Amplitude) || math.IsInf(cfg.Amplitude, 0) {
		return utils.NewConfigValidationRangeError(path, "amplitude", cfg.Amplitude, "finite")
	}
	if math.IsNaN(cfg.Frequency) || math.IsInf(cfg.Frequency, 0) {
		return utils.NewConfigValidationRangeError(path, "frequency", cfg.Frequency, "finite")
	}
	if cfg.NoiseStrength < 0 {
		return utils.NewConfigValidationRangeError(path, "noise_strength", cfg.NoiseStrength, ">= 0")
	}
	return nil
}

// UV is a normalized parametric coordinate.
type UV struct {
	U, V float64
}

// UVGrid returns the (divU+1)x(divV+1) row-major lattice of UV coordinates over [0,1]x[0,1].
// Row i holds u = i/divU and column j holds v = j/divV.
func UVGrid(divU, divV int) ([][]UV, error) {
	if divU <= 0 || divV <= 0 {
		return nil, errors.Errorf("grid divisions must be positive, got %dx%d", divU, divV)
	}
	grid := make([][]UV, divU+1)
	for i := range grid {
		grid[i] = make([]UV, divV+1)
		for j := range grid[i] {
			grid[i][j] = UV{U: float64(i) / float64(divU), V: float64(j) / float64(divV)}
		}
	}
	return grid, nil
}

// Field is a height field bound to a grid resolution.
type Field struct {
	cfg        Config
	divU, divV int
	// noise is nil when the config has no noise.
	noise [][]float64
}

// New returns a height field for a divU x divV cell grid. Noise, when enabled, is
// drawn once per grid vertex in row-major order from a generator seeded with seed.
func New(cfg Config, divU, divV int, seed int64) (*Field, error) {
	if divU <= 0 || divV <= 0 {
		return nil, errors.Errorf("grid divisions must be positive, got %dx%d", divU, divV)
	}
	if err := cfg.Validate("heightfield"); err != nil {
		return nil, err
	}
	f := &Field{cfg: cfg, divU: divU, divV: divV}
	if cfg.NoiseStrength > 0 {
		rng := utils.NewRand(seed)
		f.noise = make([][]float64, divU+1)
		for i := range f.noise {
			f.noise[i] = make([]float64, divV+1)
			for j := range f.noise[i] {
				f.noise[i][j] = cfg.NoiseStrength * (rng.Float64() - 0.5)
			}
		}
	}
	return f, nil
}

// Config returns the configuration the field was built with.
func (f *Field) Config() Config {
	return f.cfg
}

// Dims returns the number of cells along u and v.
func (f *Field) Dims() (int, int) {
	return f.divU, f.divV
}

// Smooth returns the noiseless sinusoidal height at (u, v).
func (f *Field) Smooth(u, v float64) float64 {
	w := 2 * math.Pi * f.cfg.Frequency
	return f.cfg.Amplitude * math.Sin(w*u+f.cfg.Phase) * math.Cos(w*v+f.cfg.Phase)
}

// Height returns the height at (u, v). The noise term is taken from the nearest grid vertex.
func (f *Field) Height(u, v float64) float64 {
	h := f.Smooth(u, v)
	if f.noise != nil {
		h += f.noise[nearestIndex(u, f.divU)][nearestIndex(v, f.divV)]
	}
	return h
}

// HeightAt returns the height at grid vertex (i, j).
func (f *Field) HeightAt(i, j int) float64 {
	h := f.Smooth(float64(i)/float64(f.divU), float64(j)/float64(f.divV))
	if f.noise != nil {
		h += f.noise[i][j]
	}
	return h
}

func nearestIndex(t float64, div int) int {
	idx := int(math.Round(t * float64(div)))
	if idx < 0 {
		return 0
	}
	if idx > div {
		return div
	}
	return idx
}
