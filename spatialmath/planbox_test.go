package spatialmath

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPlanBoxIntersectsSegment(t *testing.T) {
	box := NewPlanBox(r2.Point{X: 2, Y: 2}, r2.Point{X: 0, Y: 0})
	test.That(t, box.Min, test.ShouldResemble, r2.Point{X: 0, Y: 0})
	test.That(t, box.Validate(), test.ShouldBeNil)

	cases := []struct {
		name     string
		a, b     r3.Vector
		expected bool
	}{
		{"crossing", r3.Vector{X: -1, Y: 1, Z: 0}, r3.Vector{X: 3, Y: 1, Z: 5}, true},
		{"inside", r3.Vector{X: 0.5, Y: 0.5, Z: -3}, r3.Vector{X: 1.5, Y: 1.5, Z: 3}, true},
		{"vertical through", r3.Vector{X: 1, Y: 1, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 10}, true},
		{"vertical outside", r3.Vector{X: 3, Y: 1, Z: 0}, r3.Vector{X: 3, Y: 1, Z: 10}, false},
		{"miss diagonal", r3.Vector{X: 3, Y: 0, Z: 0}, r3.Vector{X: 5, Y: 2, Z: 0}, false},
		{"miss corner", r3.Vector{X: 1.5, Y: 3, Z: 0}, r3.Vector{X: 3, Y: 1.5, Z: 0}, false},
		{"touch corner", r3.Vector{X: 1, Y: 3, Z: 0}, r3.Vector{X: 3, Y: 1, Z: 0}, true},
		{"touch edge", r3.Vector{X: 2, Y: -1, Z: 0}, r3.Vector{X: 2, Y: 3, Z: 0}, true},
		{"stops short", r3.Vector{X: -3, Y: 1, Z: 0}, r3.Vector{X: -0.1, Y: 1, Z: 0}, false},
		{"parallel above", r3.Vector{X: -1, Y: 2.5, Z: 0}, r3.Vector{X: 3, Y: 2.5, Z: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, box.IntersectsSegment(tc.a, tc.b), test.ShouldEqual, tc.expected)
			test.That(t, box.IntersectsSegment(tc.b, tc.a), test.ShouldEqual, tc.expected)
		})
	}
}

func TestPlanBoxContains(t *testing.T) {
	box := PlanBox{Min: r2.Point{X: -1, Y: -1}, Max: r2.Point{X: 1, Y: 1}}
	test.That(t, box.ContainsPoint(r3.Vector{Z: 100}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: 1.01}), test.ShouldBeFalse)

	bad := PlanBox{Min: r2.Point{X: 1, Y: 0}, Max: r2.Point{X: 0, Y: 1}}
	test.That(t, bad.Validate(), test.ShouldNotBeNil)
	test.That(t, box.String(), test.ShouldContainSubstring, "PlanBox")
}
