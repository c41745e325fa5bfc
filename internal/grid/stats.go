package grid

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// finite returns the sorted non-NaN values of vs.
func finite(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// MinMax returns the range of vs ignoring NaN. With robust set it returns the
// 2nd and 98th percentiles instead. Both are NaN when nothing is finite.
func MinMax(vs []float64, robust bool) (float64, float64) {
	s := finite(vs)
	if len(s) == 0 {
		return math.NaN(), math.NaN()
	}
	if robust {
		return stat.Quantile(0.02, stat.LinInterp, s, nil), stat.Quantile(0.98, stat.LinInterp, s, nil)
	}
	return s[0], s[len(s)-1]
}

// MinMax returns the value range of the grid.
func (g *Grid) MinMax(robust bool) (float64, float64) {
	return MinMax(g.Data, robust)
}

// MinMaxMasked returns the value range of the nodes inside poly.
func (g *Grid) MinMaxMasked(poly orb.Polygon, robust bool) (float64, float64) {
	var vs []float64
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			if planar.PolygonContains(poly, orb.Point{g.X(i), g.Y(j)}) {
				vs = append(vs, g.At(i, j))
			}
		}
	}
	return MinMax(vs, robust)
}

// RMSE is the root of the mean (or median) of squared values, NaN ignored.
func RMSE(vs []float64, asMedian bool) float64 {
	sq := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) {
			sq = append(sq, v*v)
		}
	}
	if len(sq) == 0 {
		return math.NaN()
	}
	if asMedian {
		sort.Float64s(sq)
		return math.Sqrt(median(sq))
	}
	return math.Sqrt(floats.Sum(sq) / float64(len(sq)))
}

// median of sorted s, averaging the middle pair for even lengths.
func median(s []float64) float64 {
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
