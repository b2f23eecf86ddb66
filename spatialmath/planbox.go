package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PlanBox is an axis aligned rectangle in plan (x, y). It extends infinitely in z, so a segment
// intersects it whenever its plan projection does.
type PlanBox struct {
	Min r2.Point `json:"min" yaml:"min"`
	Max r2.Point `json:"max" yaml:"max"`
}

// NewPlanBox returns the box spanned by two opposite corners given in any order.
func NewPlanBox(a, b r2.Point) PlanBox {
	return PlanBox{
		Min: r2.Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: r2.Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// String returns a human readable string that represents the box.
func (b PlanBox) String() string {
	return fmt.Sprintf("PlanBox | X:[%.2f, %.2f] Y:[%.2f, %.2f]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y)
}

// Validate ensures the box is well formed.
func (b PlanBox) Validate() error {
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		return errors.Errorf("box min %v must not exceed max %v", b.Min, b.Max)
	}
	return nil
}

// ContainsPoint reports whether the plan projection of pt lies inside or on the box.
func (b PlanBox) ContainsPoint(pt r3.Vector) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X && pt.Y >= b.Min.Y && pt.Y <= b.Max.Y
}

// IntersectsSegment reports whether the plan projection of the segment a -> b touches the box.
// Touching an edge or corner counts as an intersection.
func (b PlanBox) IntersectsSegment(a, c r3.Vector) bool {
	// Liang-Barsky clipping of the projected segment against the rectangle.
	dx := c.X - a.X
	dy := c.Y - a.Y
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			// parallel to this edge; inside iff q >= 0
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}
	return clip(-dx, a.X-b.Min.X) &&
		clip(dx, b.Max.X-a.X) &&
		clip(-dy, a.Y-b.Min.Y) &&
		clip(dy, b.Max.Y-a.Y) &&
		t0 <= t1
}
