// Package anchor picks the low points of a sampled surface that trees grow from.
package anchor

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Anchor is a selected surface point and the trunk base below it.
type Anchor struct {
	Point r3.Vector `json:"point"`
	Base  r3.Vector `json:"base"`
}

// Lowest returns the count points with the smallest z, lowest first. Points with equal z keep
// their input order.
func Lowest(points []r3.Vector, count int) []r3.Vector {
	sorted := make([]r3.Vector, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Z < sorted[j].Z })
	if count < len(sorted) {
		sorted = sorted[:count]
	}
	return sorted
}

// CullByDistance walks candidates in order and keeps each one that is at least minSpacing away
// from every point kept before it. Rejected points are not reconsidered.
func CullByDistance(candidates []r3.Vector, minSpacing float64) []r3.Vector {
	var kept []r3.Vector
	for _, c := range candidates {
		tooClose := lo.ContainsBy(kept, func(k r3.Vector) bool {
			return c.Distance(k) < minSpacing
		})
		if !tooClose {
			kept = append(kept, c)
		}
	}
	return kept
}

// Validate checks selection parameters.
func Validate(count int, minSpacing float64) error {
	if count <= 0 {
		return errors.Errorf("anchor count must be positive, got %d", count)
	}
	if minSpacing < 0 {
		return errors.Errorf("anchor spacing must not be negative, got %v", minSpacing)
	}
	return nil
}

// Select returns up to count of the lowest points, thinned so that no two are closer than
// minSpacing.
func Select(points []r3.Vector, count int, minSpacing float64) ([]r3.Vector, error) {
	if err := Validate(count, minSpacing); err != nil {
		return nil, err
	}
	return CullByDistance(Lowest(points, count), minSpacing), nil
}

// Bases pairs every point with a trunk base offset below it.
func Bases(points []r3.Vector, offset float64) []Anchor {
	return lo.Map(points, func(p r3.Vector, _ int) Anchor {
		return Anchor{Point: p, Base: r3.Vector{X: p.X, Y: p.Y, Z: p.Z - offset}}
	})
}
