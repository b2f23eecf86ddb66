// Package config defines the configuration bundle of a canopy run.
package config

import (
	"go.viam.com/canopy/anchor"
	"go.viam.com/canopy/growth"
	"go.viam.com/canopy/heightfield"
	"go.viam.com/canopy/panel"
	"go.viam.com/canopy/surface"
	"go.viam.com/canopy/utils"
)

// Config is everything a run needs. A fixed Config always produces the same output.
type Config struct {
	Seed        int64              `json:"seed" yaml:"seed"`
	Grid        Grid               `json:"grid" yaml:"grid"`
	Heightfield heightfield.Config `json:"heightfield" yaml:"heightfield"`
	Extents     surface.Extents    `json:"extents" yaml:"extents"`
	Surface     Surface            `json:"surface" yaml:"surface"`
	Panels      Panels             `json:"panels" yaml:"panels"`
	Anchors     Anchors            `json:"anchors" yaml:"anchors"`
	Growth      growth.Config      `json:"growth" yaml:"growth"`
}

// Grid is the sampling resolution in cells.
type Grid struct {
	DivU int `json:"div_u" yaml:"div_u"`
	DivV int `json:"div_v" yaml:"div_v"`
}

// Validate ensures all parts of the config are valid.
func (g *Grid) Validate(path string) error {
	if g.DivU <= 0 {
		return utils.NewConfigValidationRangeError(path, "div_u", g.DivU, "> 0")
	}
	if g.DivV <= 0 {
		return utils.NewConfigValidationRangeError(path, "div_v", g.DivV, "> 0")
	}
	return nil
}

// Surface configures the surface fit.
type Surface struct {
	Degree int `json:"degree" yaml:"degree"`
}

// Validate ensures all parts of the config are valid.
func (s *Surface) Validate(path string, grid Grid) error {
	if s.Degree < 1 {
		return utils.NewConfigValidationRangeError(path, "degree", s.Degree, ">= 1")
	}
	if grid.DivU < s.Degree || grid.DivV < s.Degree {
		return utils.NewConfigValidationRangeError(path, "degree", s.Degree,
			"at most the number of grid cells in each direction")
	}
	return nil
}

// Panels configures the panel apertures.
type Panels struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// Validate ensures all parts of the config are valid.
func (p *Panels) Validate(path string) error {
	if err := panel.ValidateThreshold(p.Threshold); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Anchors configures anchor selection.
type Anchors struct {
	Count      int     `json:"count" yaml:"count"`
	MinSpacing float64 `json:"min_spacing" yaml:"min_spacing"`
	// BaseOffset is how far below its anchor point a trunk starts.
	BaseOffset float64 `json:"base_offset" yaml:"base_offset"`
}

// Validate ensures all parts of the config are valid.
func (a *Anchors) Validate(path string) error {
	if err := anchor.Validate(a.Count, a.MinSpacing); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Default returns the reference canopy configuration.
func Default() Config {
	return Config{
		Seed:        28,
		Grid:        Grid{DivU: 10, DivV: 10},
		Heightfield: heightfield.Config{Amplitude: 1, Frequency: 2},
		Extents:     surface.Extents{SizeX: 20, SizeY: 20, ZOffset: 5},
		Surface:     Surface{Degree: surface.DefaultDegree},
		Panels:      Panels{Threshold: 0.5},
		Anchors:     Anchors{Count: 14, MinSpacing: 4, BaseOffset: 5},
		Growth:      growth.DefaultConfig(),
	}
}

// Validate ensures all parts of the config are valid. path prefixes every section name.
func (c *Config) Validate(path string) error {
	if err := c.Grid.Validate(join(path, "grid")); err != nil {
		return err
	}
	if err := c.Heightfield.Validate(join(path, "heightfield")); err != nil {
		return err
	}
	if err := c.Extents.Validate(join(path, "extents")); err != nil {
		return err
	}
	if err := c.Surface.Validate(join(path, "surface"), c.Grid); err != nil {
		return err
	}
	if err := c.Panels.Validate(join(path, "panels")); err != nil {
		return err
	}
	if err := c.Anchors.Validate(join(path, "anchors")); err != nil {
		return err
	}
	return c.Growth.Validate(join(path, "growth"))
}

func join(path, section string) string {
	if path == "" {
		return section
	}
	return path + "." + section
}
