package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// MinPipeSides is the fewest facets a pipe can have.
const MinPipeSides = 3

// Pipe returns an open cylindrical mesh of the given radius around the segment from -> to,
// with sides facets around its circumference. A zero length segment has no pipe and yields nil.
func Pipe(from, to r3.Vector, radius float64, sides int) *Mesh {
	axis := to.Sub(from)
	height := axis.Norm()
	if height < floatEpsilon {
		return nil
	}
	if sides < MinPipeSides {
		sides = MinPipeSides
	}
	dir := axis.Mul(1 / height)
	// u and w span the cross section plane
	u := PerpendicularAxis(dir)
	u = u.Sub(dir.Mul(u.Dot(dir))).Normalize()
	w := dir.Cross(u)

	vertices := make([]r3.Vector, 2*sides)
	normals := make([]r3.Vector, 2*sides)
	for k := 0; k < sides; k++ {
		ang := 2 * math.Pi * float64(k) / float64(sides)
		radial := u.Mul(math.Cos(ang)).Add(w.Mul(math.Sin(ang)))
		vertices[k] = from.Add(radial.Mul(radius))
		vertices[sides+k] = to.Add(radial.Mul(radius))
		normals[k] = radial
		normals[sides+k] = radial
	}
	faces := make([][3]int, 0, 2*sides)
	for k := 0; k < sides; k++ {
		k1 := (k + 1) % sides
		faces = append(faces, [3]int{k, k1, sides + k1}, [3]int{k, sides + k1, sides + k})
	}
	return &Mesh{Vertices: vertices, Normals: normals, Faces: faces}
}
