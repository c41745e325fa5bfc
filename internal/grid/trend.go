package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Trend fits a 2-D polynomial of the given degree to the grid by least
// squares. It returns the fitted surface and the residual (grid minus fit).
// Nodes that are NaN in g stay NaN in both.
func (g *Grid) Trend(degree int) (fit, detrended *Grid, err error) {
	if degree < 0 {
		return nil, nil, fmt.Errorf("trend: negative degree %d", degree)
	}

	var xs, ys, zs []float64
	var idx []int
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			z := g.At(i, j)
			if math.IsNaN(z) {
				continue
			}
			xs = append(xs, g.X(i))
			ys = append(ys, g.Y(j))
			zs = append(zs, z)
			idx = append(idx, j*g.NX+i)
		}
	}

	nTerms := (degree + 1) * (degree + 2) / 2
	if len(zs) < nTerms {
		return nil, nil, fmt.Errorf("%w: %d nodes for %d coefficients", ErrTooFewPoints, len(zs), nTerms)
	}

	// centre and scale coordinates so high powers stay well conditioned
	cx, sx := normalisation(xs)
	cy, sy := normalisation(ys)

	a := mat.NewDense(len(zs), nTerms, nil)
	for r := range zs {
		u, v := (xs[r]-cx)/sx, (ys[r]-cy)/sy
		for c, pw := range powers(degree) {
			a.Set(r, c, math.Pow(u, float64(pw[0]))*math.Pow(v, float64(pw[1])))
		}
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, mat.NewVecDense(len(zs), zs)); err != nil {
		return nil, nil, fmt.Errorf("trend: least squares: %w", err)
	}
	var pred mat.VecDense
	pred.MulVec(a, &coef)

	fit, detrended = g.Clone(), g.Clone()
	for r, k := range idx {
		fit.Data[k] = pred.AtVec(r)
		detrended.Data[k] = zs[r] - pred.AtVec(r)
	}
	return fit, detrended, nil
}

// powers lists (x, y) exponent pairs of every term up to degree.
func powers(degree int) [][2]int {
	var out [][2]int
	for d := 0; d <= degree; d++ {
		for i := 0; i <= d; i++ {
			out = append(out, [2]int{d - i, i})
		}
	}
	return out
}

func normalisation(vs []float64) (centre, scale float64) {
	lo, hi := MinMax(vs, false)
	centre = (lo + hi) / 2
	scale = (hi - lo) / 2
	if scale == 0 {
		scale = 1
	}
	return centre, scale
}
