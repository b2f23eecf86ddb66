// Package spatialmath holds the geometry primitives shared by the canopy engines:
// lines, triangle meshes, pipes around segments, plan-view obstacle boxes and
// axis-angle rotations.
package spatialmath

import (
	"github.com/golang/geo/r3"
)

// floatEpsilon is the tolerance below which lengths are treated as zero.
const floatEpsilon = 1e-9

// Mesh is an indexed triangle mesh with per-vertex normals.
type Mesh struct {
	Vertices []r3.Vector `json:"vertices"`
	Normals  []r3.Vector `json:"normals,omitempty"`
	Faces    [][3]int    `json:"faces"`
}

// NewMesh returns a mesh over the given vertices and faces and computes its vertex normals.
func NewMesh(vertices []r3.Vector, faces [][3]int) *Mesh {
	m := &Mesh{Vertices: vertices, Faces: faces}
	m.ComputeNormals()
	return m
}

// Triangles returns the faces of the mesh as triangles.
func (m *Mesh) Triangles() []*Triangle {
	tris := make([]*Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		tris = append(tris, NewTriangle(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]))
	}
	return tris
}

// ComputeNormals sets each vertex normal to the area weighted average of the normals of the
// faces around it.
func (m *Mesh) ComputeNormals() {
	normals := make([]r3.Vector, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		// unnormalized cross product weights by area
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i, n := range normals {
		if n.Norm2() > floatEpsilon*floatEpsilon {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}

// Merge appends the vertices and faces of other to m.
func (m *Mesh) Merge(other *Mesh) {
	if other == nil {
		return
	}
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
	}
}

// QuadMesh triangulates a row-major grid of points into a mesh with two triangles per cell.
func QuadMesh(grid [][]r3.Vector) *Mesh {
	rows := len(grid)
	if rows == 0 {
		return &Mesh{}
	}
	cols := len(grid[0])
	vertices := make([]r3.Vector, 0, rows*cols)
	for _, row := range grid {
		vertices = append(vertices, row...)
	}
	var faces [][3]int
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			a := i*cols + j
			b := a + 1
			c := b + cols
			d := c - 1
			faces = append(faces, [3]int{a, d, c}, [3]int{a, c, b})
		}
	}
	return NewMesh(vertices, faces)
}
