package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

var (
	// Vertical is the world up axis.
	Vertical = r3.Vector{X: 0, Y: 0, Z: 1}
	// fallbackAxis replaces a perpendicular axis that cannot be derived from a cross product.
	fallbackAxis = r3.Vector{X: 1, Y: 0, Z: 0}
)

// RotateAboutAxis rotates v by angle radians around axis (right handed). A zero axis leaves v unchanged.
func RotateAboutAxis(v, axis r3.Vector, angle float64) r3.Vector {
	if axis.Norm2() < floatEpsilon*floatEpsilon {
		return v
	}
	q := mgl64.QuatRotate(angle, toVec3(axis).Normalize())
	return fromVec3(q.Rotate(toVec3(v)))
}

// PerpendicularAxis returns a unit axis perpendicular to both dir and the vertical. When dir is
// (anti)parallel to the vertical the cross product is not unique and the x axis is used instead.
func PerpendicularAxis(dir r3.Vector) r3.Vector {
	axis := Vertical.Cross(dir)
	if axis.Norm() < 1e-6*dir.Norm() || axis.Norm2() == 0 {
		return fallbackAxis
	}
	return axis.Normalize()
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
