package growth

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/utils"
)

// Config describes how trees grow. Angles are in degrees.
type Config struct {
	TrunkLength    float64   `json:"trunk_length" yaml:"trunk_length"`
	TrunkRadius    float64   `json:"trunk_radius" yaml:"trunk_radius"`
	TrunkDirection r3.Vector `json:"trunk_direction" yaml:"trunk_direction"`

	FirstLevelMinBranches  int     `json:"first_level_min_branches" yaml:"first_level_min_branches"`
	FirstLevelMaxBranches  int     `json:"first_level_max_branches" yaml:"first_level_max_branches"`
	FirstLevelAngleMin     float64 `json:"first_level_angle_min" yaml:"first_level_angle_min"`
	FirstLevelAngleMax     float64 `json:"first_level_angle_max" yaml:"first_level_angle_max"`
	FirstLevelLengthFactor float64 `json:"first_level_length_factor" yaml:"first_level_length_factor"`

	// Levels is the number of branch segments a path may have beyond the trunk.
	Levels          int     `json:"levels" yaml:"levels"`
	BranchAngleMin  float64 `json:"branch_angle_min" yaml:"branch_angle_min"`
	BranchAngleMax  float64 `json:"branch_angle_max" yaml:"branch_angle_max"`
	AngleJitter     float64 `json:"angle_jitter" yaml:"angle_jitter"`
	LengthFactor    float64 `json:"length_factor" yaml:"length_factor"`
	RadiusReduction float64 `json:"radius_reduction" yaml:"radius_reduction"`

	StepVariationMin float64 `json:"step_variation_min" yaml:"step_variation_min"`
	StepVariationMax float64 `json:"step_variation_max" yaml:"step_variation_max"`
	// Randomness is the size of the per-axis direction jitter. Vertical jitter is scaled by 0.3.
	Randomness float64 `json:"randomness" yaml:"randomness"`
	// UpwardOnly mirrors candidate directions that point down.
	UpwardOnly bool `json:"upward_only" yaml:"upward_only"`

	Attractor     r3.Vector `json:"attractor" yaml:"attractor"`
	SteerStrength float64   `json:"steer_strength" yaml:"steer_strength"`

	Obstacles []spatialmath.PlanBox `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	PipeSides int                   `json:"pipe_sides" yaml:"pipe_sides"`
}

// DefaultConfig returns the growth parameters of the reference canopy.
func DefaultConfig() Config {
	return Config{
		TrunkLength:            5,
		TrunkRadius:            0.3,
		TrunkDirection:         spatialmath.Vertical,
		FirstLevelMinBranches:  3,
		FirstLevelMaxBranches:  4,
		FirstLevelAngleMin:     25,
		FirstLevelAngleMax:     40,
		FirstLevelLengthFactor: 0.6,
		Levels:                 3,
		BranchAngleMin:         20,
		BranchAngleMax:         40,
		AngleJitter:            2,
		LengthFactor:           0.7,
		RadiusReduction:        0.7,
		StepVariationMin:       0.85,
		StepVariationMax:       1.15,
		Randomness:             0.2,
		UpwardOnly:             true,
		Attractor:              r3.Vector{X: 10, Y: 10, Z: 12},
		SteerStrength:          0.05,
		PipeSides:              24,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.TrunkLength <= 0 {
		return utils.NewConfigValidationRangeError(path, "trunk_length", cfg.TrunkLength, "> 0")
	}
	if cfg.TrunkRadius <= 0 {
		return utils.NewConfigValidationRangeError(path, "trunk_radius", cfg.TrunkRadius, "> 0")
	}
	if cfg.TrunkDirection.Norm() < 1e-9 {
		return utils.NewConfigValidationError(path, errors.New("trunk_direction must not be a zero vector"))
	}
	if cfg.FirstLevelMinBranches < 0 {
		return utils.NewConfigValidationRangeError(path, "first_level_min_branches", cfg.FirstLevelMinBranches, ">= 0")
	}
	if cfg.FirstLevelMaxBranches < cfg.FirstLevelMinBranches {
		return utils.NewConfigValidationRangeError(path, "first_level_max_branches", cfg.FirstLevelMaxBranches,
			">= first_level_min_branches")
	}
	if cfg.FirstLevelAngleMax < cfg.FirstLevelAngleMin {
		return utils.NewConfigValidationRangeError(path, "first_level_angle_max", cfg.FirstLevelAngleMax,
			">= first_level_angle_min")
	}
	if cfg.FirstLevelLengthFactor <= 0 {
		return utils.NewConfigValidationRangeError(path, "first_level_length_factor", cfg.FirstLevelLengthFactor, "> 0")
	}
	if cfg.Levels < 0 {
		return utils.NewConfigValidationRangeError(path, "levels", cfg.Levels, ">= 0")
	}
	if cfg.BranchAngleMax < cfg.BranchAngleMin {
		return utils.NewConfigValidationRangeError(path, "branch_angle_max", cfg.BranchAngleMax, ">= branch_angle_min")
	}
	if cfg.AngleJitter < 0 {
		return utils.NewConfigValidationRangeError(path, "angle_jitter", cfg.AngleJitter, ">= 0")
	}
	if cfg.LengthFactor <= 0 {
		return utils.NewConfigValidationRangeError(path, "length_factor", cfg.LengthFactor, "> 0")
	}
	if cfg.RadiusReduction <= 0 {
		return utils.NewConfigValidationRangeError(path, "radius_reduction", cfg.RadiusReduction, "> 0")
	}
	if cfg.StepVariationMin <= 0 || cfg.StepVariationMax < cfg.StepVariationMin {
		return utils.NewConfigValidationRangeError(path, "step_variation", []float64{cfg.StepVariationMin, cfg.StepVariationMax},
			"a range with 0 < min <= max")
	}
	if cfg.Randomness < 0 {
		return utils.NewConfigValidationRangeError(path, "randomness", cfg.Randomness, ">= 0")
	}
	if !(cfg.SteerStrength >= 0 && cfg.SteerStrength <= 1) {
		return utils.NewConfigValidationRangeError(path, "steer_strength", cfg.SteerStrength, "in [0, 1]")
	}
	if math.IsNaN(cfg.Attractor.Norm()) || math.IsInf(cfg.Attractor.Norm(), 0) {
		return utils.NewConfigValidationRangeError(path, "attractor", cfg.Attractor, "finite")
	}
	for i, box := range cfg.Obstacles {
		if err := box.Validate(); err != nil {
			return utils.NewConfigValidationError(path, errors.Wrapf(err, "obstacle %d", i))
		}
	}
	if cfg.PipeSides < spatialmath.MinPipeSides {
		return utils.NewConfigValidationRangeError(path, "pipe_sides", cfg.PipeSides, ">= 3")
	}
	return nil
}
