package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// bspline is a clamped B-spline curve over the parameter range [0,1] that
// passes through every fitted point.
type bspline struct {
	degree int
	knots  []float64
	ctrl   [][]float64
	dim    int
}

// fitBSpline solves for the control points of a degree-p spline that passes
// through points[k] at params[k]. params must be strictly increasing from 0
// to 1. Interior knots are placed by averaging consecutive parameters, which
// keeps the collocation matrix non-singular.
func fitBSpline(points [][]float64, params []float64, p int) (*bspline, error) {
	n := len(points) - 1
	if p > n {
		p = n
	}
	dim := len(points[0])

	knots := make([]float64, n+p+2)
	for i := 0; i <= p; i++ {
		knots[i] = 0
		knots[n+1+i] = 1
	}
	for j := 1; j <= n-p; j++ {
		sum := 0.0
		for i := j; i < j+p; i++ {
			sum += params[i]
		}
		knots[j+p] = sum / float64(p)
	}

	a := mat.NewDense(n+1, n+1, nil)
	b := mat.NewDense(n+1, dim, nil)
	for k := 0; k <= n; k++ {
		span := findSpan(n, p, params[k], knots)
		basis := basisFuncs(span, params[k], p, knots)
		for j := 0; j <= p; j++ {
			a.Set(k, span-p+j, basis[j])
		}
		for d := 0; d < dim; d++ {
			b.Set(k, d, points[k][d])
		}
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("spline fit: %w", err)
	}

	ctrl := make([][]float64, n+1)
	for i := range ctrl {
		ctrl[i] = make([]float64, dim)
		for d := 0; d < dim; d++ {
			ctrl[i][d] = x.At(i, d)
		}
	}

	return &bspline{degree: p, knots: knots, ctrl: ctrl, dim: dim}, nil
}

// eval writes the curve point at parameter u into out.
func (s *bspline) eval(u float64, out []float64) {
	u = math.Max(0, math.Min(1, u))
	n := len(s.ctrl) - 1
	span := findSpan(n, s.degree, u, s.knots)
	basis := basisFuncs(span, u, s.degree, s.knots)

	for d := range out {
		out[d] = 0
	}
	for j := 0; j <= s.degree; j++ {
		cp := s.ctrl[span-s.degree+j]
		for d := 0; d < s.dim; d++ {
			out[d] += basis[j] * cp[d]
		}
	}
}

// findSpan returns the knot span index containing u.
func findSpan(n, p int, u float64, knots []float64) int {
	if u >= knots[n+1] {
		return n
	}
	if u <= knots[p] {
		return p
	}

	low, high := p, n+1
	mid := (low + high) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisFuncs computes the p+1 non-vanishing basis functions at u in span i
// using the Cox-de Boor recurrence.
func basisFuncs(i int, u float64, p int, knots []float64) []float64 {
	n := make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)

	n[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - knots[i+1-j]
		right[j] = knots[i+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// chordLengths returns the euclidean distance between consecutive values.
func chordLengths(values [][]float64) (chords []float64, total float64) {
	if len(values) < 2 {
		return nil, 0
	}
	chords = make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		sum := 0.0
		for d := range values[i] {
			diff := values[i][d] - values[i-1][d]
			sum += diff * diff
		}
		chords[i-1] = math.Sqrt(sum)
		total += chords[i-1]
	}
	return chords, total
}
