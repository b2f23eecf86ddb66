package growth

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/canopy/spatialmath"
	"go.viam.com/canopy/utils"
)

// SteerHeading turns a heading a fraction strength of the way toward target along the shorter
// arc. Headings are degrees and the result is in [0, 360).
func SteerHeading(heading, target, strength float64) float64 {
	return utils.ModAngDeg(heading + strength*utils.SignedAngleDiffDeg(heading, target))
}

// Azimuth returns the plan heading of v in degrees, counterclockwise from +x.
func Azimuth(v r3.Vector) float64 {
	return utils.ModAngDeg(utils.RadToDeg(math.Atan2(v.Y, v.X)))
}

// steer rotates dir about the vertical so its azimuth moves toward the bearing from pos to
// attractor. Near vertical directions and an attractor directly above pos have no defined
// heading and are returned unchanged.
func steer(dir, pos, attractor r3.Vector, strength float64) r3.Vector {
	if strength == 0 {
		return dir
	}
	plan := r3.Vector{X: dir.X, Y: dir.Y}
	toward := r3.Vector{X: attractor.X - pos.X, Y: attractor.Y - pos.Y}
	if plan.Norm() <= 1e-9*dir.Norm() || toward.Norm() < 1e-9 {
		return dir
	}
	heading := Azimuth(plan)
	turn := utils.SignedAngleDiffDeg(heading, SteerHeading(heading, Azimuth(toward), strength))
	return spatialmath.RotateAboutAxis(dir, spatialmath.Vertical, utils.DegToRad(turn))
}
