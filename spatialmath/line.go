package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Line is a directed line segment.
type Line struct {
	From r3.Vector `json:"from"`
	To   r3.Vector `json:"to"`
}

// Length returns the length of the segment.
func (l Line) Length() float64 {
	return l.To.Sub(l.From).Norm()
}

// Direction returns the vector from From to To.
func (l Line) Direction() r3.Vector {
	return l.To.Sub(l.From)
}

// LerpPoint linearly interpolates between two points.
func LerpPoint(a, b r3.Vector, t float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(t))
}
