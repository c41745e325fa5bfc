package grid

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"polarprofile.org/internal/region"
)

// Reduction collapses the samples of one block. It has the signature of
// gonum's stat.Mean; weights are always nil.
type Reduction func(x, weights []float64) float64

// BlockReduce bins scattered points into square blocks of the given spacing
// laid out from r's south-west corner and reduces the coordinates and every
// value column of each block with fn (stat.Mean when nil). Points outside r
// are dropped, as are empty blocks. NaN values are ignored; a block with no
// finite value in a column reduces to NaN. Blocks are returned row by row
// from the south.
func BlockReduce(points []orb.Point, values [][]float64, r region.Region, spacing float64, fn Reduction) ([]orb.Point, [][]float64, error) {
	if spacing <= 0 || math.IsNaN(spacing) {
		return nil, nil, fmt.Errorf("%w: block spacing must be positive, got %g", ErrMalformedGrid, spacing)
	}
	for c, col := range values {
		if len(col) != len(points) {
			return nil, nil, fmt.Errorf("%w: column %d has %d values for %d points", ErrMalformedGrid, c, len(col), len(points))
		}
	}
	if fn == nil {
		fn = stat.Mean
	}

	nx := max(1, int(math.Ceil(r.Width()/spacing)))
	ny := max(1, int(math.Ceil(r.Height()/spacing)))
	blocks := make(map[int][]int)
	for k, p := range points {
		if !r.Contains(p) {
			continue
		}
		i := min(int((p.X()-r.XMin)/spacing), nx-1)
		j := min(int((p.Y()-r.YMin)/spacing), ny-1)
		blocks[j*nx+i] = append(blocks[j*nx+i], k)
	}

	keys := slices.Sorted(maps.Keys(blocks))
	outPoints := make([]orb.Point, len(keys))
	outValues := make([][]float64, len(values))
	for c := range outValues {
		outValues[c] = make([]float64, len(keys))
	}

	for b, key := range keys {
		members := blocks[key]
		xs, ys := make([]float64, len(members)), make([]float64, len(members))
		for m, k := range members {
			xs[m], ys[m] = points[k].X(), points[k].Y()
		}
		outPoints[b] = orb.Point{fn(xs, nil), fn(ys, nil)}

		for c, col := range values {
			vs := make([]float64, 0, len(members))
			for _, k := range members {
				if !math.IsNaN(col[k]) {
					vs = append(vs, col[k])
				}
			}
			if len(vs) == 0 {
				outValues[c][b] = math.NaN()
				continue
			}
			outValues[c][b] = fn(vs, nil)
		}
	}
	return outPoints, outValues, nil
}
