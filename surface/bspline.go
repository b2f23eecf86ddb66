package surface

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultDegree is the polynomial degree used in each parametric direction.
const DefaultDegree = 3

// BSpline is a non-rational B-spline surface that interpolates a grid of points.
// Its domain is [0,1]x[0,1] and grid point (i, j) sits at (i/(rows-1), j/(cols-1)).
type BSpline struct {
	degree         int
	knotsU, knotsV []float64
	// control[i][j] is the control point at row i (u) and column j (v).
	control [][]r3.Vector
}

// Fit interpolates a row-major point grid with a B-spline surface of the given degree in both
// directions, using uniformly spaced parameters and averaged knot vectors.
func Fit(points [][]r3.Vector, degree int) (*BSpline, error) {
	rows := len(points)
	if rows < 2 {
		return nil, errors.Errorf("need at least 2 rows of points, got %d", rows)
	}
	cols := len(points[0])
	if cols < 2 {
		return nil, errors.Errorf("need at least 2 columns of points, got %d", cols)
	}
	for i, row := range points {
		if len(row) != cols {
			return nil, errors.Errorf("row %d has %d points, expected %d", i, len(row), cols)
		}
	}
	if degree < 1 {
		return nil, errors.Errorf("degree must be at least 1, got %d", degree)
	}
	if rows < degree+1 || cols < degree+1 {
		return nil, errors.Errorf("degree %d needs at least %d points per direction, got %dx%d",
			degree, degree+1, rows, cols)
	}

	paramsU := uniformParams(rows)
	paramsV := uniformParams(cols)
	knotsU := averagedKnots(paramsU, degree)
	knotsV := averagedKnots(paramsV, degree)

	// Interpolate along u for every column at once: A_u * R = Q.
	q := mat.NewDense(rows, 3*cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := points[i][j]
			q.Set(i, 3*j, p.X)
			q.Set(i, 3*j+1, p.Y)
			q.Set(i, 3*j+2, p.Z)
		}
	}
	r, err := solveInterpolation(collocation(paramsU, knotsU, degree), q)
	if err != nil {
		return nil, errors.Wrap(err, "interpolating along u")
	}

	// Then along v for every row of intermediate points: A_v * P = R^T.
	rt := mat.NewDense(cols, 3*rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			for c := 0; c < 3; c++ {
				rt.Set(j, 3*i+c, r.At(i, 3*j+c))
			}
		}
	}
	p, err := solveInterpolation(collocation(paramsV, knotsV, degree), rt)
	if err != nil {
		return nil, errors.Wrap(err, "interpolating along v")
	}

	control := make([][]r3.Vector, rows)
	for i := range control {
		control[i] = make([]r3.Vector, cols)
		for j := range control[i] {
			control[i][j] = r3.Vector{X: p.At(j, 3*i), Y: p.At(j, 3*i+1), Z: p.At(j, 3*i+2)}
		}
	}
	return &BSpline{degree: degree, knotsU: knotsU, knotsV: knotsV, control: control}, nil
}

// Degree returns the polynomial degree of the surface in each direction.
func (s *BSpline) Degree() int {
	return s.degree
}

// Domain returns the parameter intervals along u and v.
func (s *BSpline) Domain() (Interval, Interval) {
	return Interval{0, 1}, Interval{0, 1}
}

// PointAt returns the point on the surface at (u, v).
func (s *BSpline) PointAt(u, v float64) r3.Vector {
	return s.derivatives(u, v, 0)[0][0]
}

// CurvatureAt returns the Gaussian curvature at (u, v).
func (s *BSpline) CurvatureAt(u, v float64) float64 {
	d := s.derivatives(u, v, 2)
	return GaussianCurvature(d[1][0], d[0][1], d[2][0], d[1][1], d[0][2])
}

// derivatives returns skl[k][l], the k-th partial in u and l-th partial in v, for k+l <= order.
func (s *BSpline) derivatives(u, v float64, order int) [][]r3.Vector {
	u = math.Max(0, math.Min(1, u))
	v = math.Max(0, math.Min(1, v))
	p := s.degree
	nu := len(s.control) - 1
	nv := len(s.control[0]) - 1

	spanU := findSpan(nu, p, u, s.knotsU)
	spanV := findSpan(nv, p, v, s.knotsV)
	du := min(order, p)
	dersU := dersBasisFuns(spanU, u, p, du, s.knotsU)
	dersV := dersBasisFuns(spanV, v, p, du, s.knotsV)

	skl := make([][]r3.Vector, order+1)
	for k := range skl {
		skl[k] = make([]r3.Vector, order+1)
	}
	temp := make([]r3.Vector, p+1)
	for k := 0; k <= du; k++ {
		for sIdx := 0; sIdx <= p; sIdx++ {
			temp[sIdx] = r3.Vector{}
			for rIdx := 0; rIdx <= p; rIdx++ {
				cp := s.control[spanU-p+rIdx][spanV-p+sIdx]
				temp[sIdx] = temp[sIdx].Add(cp.Mul(dersU[k][rIdx]))
			}
		}
		for l := 0; l <= min(order-k, du); l++ {
			var acc r3.Vector
			for sIdx := 0; sIdx <= p; sIdx++ {
				acc = acc.Add(temp[sIdx].Mul(dersV[l][sIdx]))
			}
			skl[k][l] = acc
		}
	}
	return skl
}

func uniformParams(count int) []float64 {
	params := make([]float64, count)
	for i := range params {
		params[i] = float64(i) / float64(count-1)
	}
	return params
}

// averagedKnots returns a clamped knot vector whose interior knots are averages of degree
// consecutive parameters.
func averagedKnots(params []float64, degree int) []float64 {
	n := len(params) - 1
	m := n + degree + 1
	knots := make([]float64, m+1)
	for i := m - degree; i <= m; i++ {
		knots[i] = 1
	}
	for j := 1; j <= n-degree; j++ {
		sum := 0.
		for i := j; i < j+degree; i++ {
			sum += params[i]
		}
		knots[j+degree] = sum / float64(degree)
	}
	return knots
}

// collocation returns the matrix A[k][i] = N_i(params[k]).
func collocation(params, knots []float64, degree int) *mat.Dense {
	n := len(params) - 1
	a := mat.NewDense(n+1, n+1, nil)
	for k, t := range params {
		span := findSpan(n, degree, t, knots)
		basis := dersBasisFuns(span, t, degree, 0, knots)[0]
		for i := 0; i <= degree; i++ {
			a.Set(k, span-degree+i, basis[i])
		}
	}
	return a
}

func solveInterpolation(a, b mat.Matrix) (*mat.Dense, error) {
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, err
		}
		// merely ill conditioned; the solution is still usable
	}
	return &x, nil
}

// findSpan returns the knot span index containing t, for a curve with n+1 control points.
func findSpan(n, degree int, t float64, knots []float64) int {
	if t >= knots[n+1] {
		return n
	}
	if t <= knots[degree] {
		return degree
	}
	low, high := degree, n+1
	mid := (low + high) / 2
	for t < knots[mid] || t >= knots[mid+1] {
		if t < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// dersBasisFuns returns ders[k][j], the k-th derivative of the j-th nonzero basis function of
// the given degree at t, for k <= order. order must not exceed degree.
func dersBasisFuns(span int, t float64, degree, order int, knots []float64) [][]float64 {
	p := degree
	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	left := make([]float64, p+1)
	right := make([]float64, p+1)

	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = t - knots[span+1-j]
		right[j] = knots[span+j] - t
		saved := 0.
		for r := 0; r < j; r++ {
			// lower triangle holds knot differences
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			// upper triangle holds basis functions
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := make([][]float64, order+1)
	for k := range ders {
		ders[k] = make([]float64, p+1)
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= order; k++ {
			d := 0.
			rk := r - k
			pk := p - k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := p - r
			if r-1 <= pk {
				j2 = k - 1
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}

	mult := float64(p)
	for k := 1; k <= order; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= mult
		}
		mult *= float64(p - k)
	}
	return ders
}
