package utils

import (
	"math"
	"math/rand"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ModAngDeg wraps an angle in degrees into [0, 360).
func ModAngDeg(ang float64) float64 {
	return math.Mod(math.Mod(ang, 360)+360, 360)
}

// SignedAngleDiffDeg returns the shortest signed rotation in degrees that takes
// from onto to. The result is in [-180, 180).
func SignedAngleDiffDeg(from, to float64) float64 {
	return ModAngDeg(to-from+540) - 180
}

// CurvatureRangeEpsilon is the width below which a curvature range counts as empty.
const CurvatureRangeEpsilon = 1e-12

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 clamps x into [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// SampleRandomIntRange samples a random integer within a range given by [min, max]
// using the given rand.Rand.
func SampleRandomIntRange(min, max int, r *rand.Rand) int {
	if max <= min {
		return min
	}
	return r.Intn(max-min+1) + min
}

// SampleRandomFloatRange samples a random float uniformly within [min, max) using the
// given rand.Rand.
func SampleRandomFloatRange(min, max float64, r *rand.Rand) float64 {
	return min + r.Float64()*(max-min)
}
