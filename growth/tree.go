package growth

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/canopy/palette"
	"go.viam.com/canopy/spatialmath"
)

// Segment is one straight piece of a tree.
type Segment struct {
	From   r3.Vector `json:"from"`
	To     r3.Vector `json:"to"`
	Level  int       `json:"level"`
	Radius float64   `json:"radius"`
	// Parent is the index of the segment this one grows from, -1 for the trunk.
	Parent int `json:"parent"`
}

// Line returns the segment as a line.
func (s Segment) Line() spatialmath.Line {
	return spatialmath.Line{From: s.From, To: s.To}
}

// Pipe returns the tube mesh around the segment.
func (s Segment) Pipe(sides int) *spatialmath.Mesh {
	return spatialmath.Pipe(s.From, s.To, s.Radius, sides)
}

// Color returns the display color of the segment's level.
func (s Segment) Color() color.NRGBA {
	return palette.LevelColor(s.Level)
}

// Tree is everything grown from one base point. Segments are in emission order, so a parent
// always precedes its children.
type Tree struct {
	Base     r3.Vector `json:"base"`
	Segments []Segment `json:"segments"`
	// Pruned counts branches abandoned because they crossed an obstacle.
	Pruned int `json:"pruned"`
	// Skipped counts branches dropped for degenerate geometry.
	Skipped int `json:"skipped"`
}

func (t *Tree) emit(seg Segment) int {
	t.Segments = append(t.Segments, seg)
	return len(t.Segments) - 1
}

// Lines returns every segment as a line.
func (t *Tree) Lines() []spatialmath.Line {
	return lo.Map(t.Segments, func(s Segment, _ int) spatialmath.Line { return s.Line() })
}

// Pipes returns one mesh per segment.
func (t *Tree) Pipes(sides int) []*spatialmath.Mesh {
	return lo.Map(t.Segments, func(s Segment, _ int) *spatialmath.Mesh { return s.Pipe(sides) })
}

// Colors returns one color per segment.
func (t *Tree) Colors() []color.NRGBA {
	return lo.Map(t.Segments, func(s Segment, _ int) color.NRGBA { return s.Color() })
}

// Leaves returns the indices of segments that nothing grows from.
func (t *Tree) Leaves() []int {
	hasChild := make([]bool, len(t.Segments))
	for _, s := range t.Segments {
		if s.Parent >= 0 {
			hasChild[s.Parent] = true
		}
	}
	var leaves []int
	for i, c := range hasChild {
		if !c {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// PathLength returns the number of segments from the trunk up to and including segment i.
func (t *Tree) PathLength(i int) int {
	n := 0
	for ; i >= 0; i = t.Segments[i].Parent {
		n++
	}
	return n
}
