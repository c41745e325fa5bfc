package grid

import (
	"fmt"
	"math"
)

// Interpolation selects how values between nodes are estimated.
type Interpolation int

const (
	Bicubic Interpolation = iota
	Bilinear
	Nearest
)

func (m Interpolation) String() string {
	switch m {
	case Bilinear:
		return "l"
	case Nearest:
		return "n"
	default:
		return "c"
	}
}

// ParseInterpolation accepts GMT's single-letter codes or the full names.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "c", "bicubic":
		return Bicubic, nil
	case "l", "bilinear":
		return Bilinear, nil
	case "n", "nearest":
		return Nearest, nil
	}
	return Bicubic, fmt.Errorf("unknown interpolation %q", s)
}

// Sampling binds a grid to an interpolation method.
type Sampling struct {
	Grid   *Grid
	Method Interpolation
}

// Sample evaluates the grid at each (x, y); points outside the grid give NaN.
func (s Sampling) Sample(xs, ys []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("sample: %d x values but %d y values", len(xs), len(ys))
	}
	out := make([]float64, len(xs))
	for k := range xs {
		out[k] = s.Grid.Value(xs[k], ys[k], s.Method)
	}
	return out, nil
}

// WithInterpolation returns a sampler using method m.
func (g *Grid) WithInterpolation(m Interpolation) Sampling {
	return Sampling{Grid: g, Method: m}
}

// Sample evaluates the grid bicubically at each (x, y).
func (g *Grid) Sample(xs, ys []float64) ([]float64, error) {
	return g.WithInterpolation(Bicubic).Sample(xs, ys)
}

// Value evaluates the grid at one point.
func (g *Grid) Value(x, y float64, m Interpolation) float64 {
	fi, ok := g.index(x, g.x0(), g.NX)
	if !ok {
		return math.NaN()
	}
	fj, ok := g.index(y, g.y0(), g.NY)
	if !ok {
		return math.NaN()
	}

	switch m {
	case Nearest:
		return g.At(int(math.Round(fi)), int(math.Round(fj)))
	case Bilinear:
		return g.bilinear(fi, fj)
	default:
		return g.bicubic(fi, fj)
	}
}

// index maps a coordinate to a fractional node index clamped to [0, n-1].
// Pixel grids extend half a cell past the outermost nodes.
func (g *Grid) index(v, origin float64, n int) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	f := (v - origin) / g.Spacing
	const eps = 1e-9
	lo, hi := -eps, float64(n-1)+eps
	if g.Registration == Pixel {
		lo, hi = -0.5-eps, float64(n)-0.5+eps
	}
	if f < lo || f > hi {
		return 0, false
	}
	return math.Max(0, math.Min(f, float64(n-1))), true
}

func (g *Grid) bilinear(fi, fj float64) float64 {
	i0, tx := split(fi, g.NX)
	j0, ty := split(fj, g.NY)
	i1, j1 := min(i0+1, g.NX-1), min(j0+1, g.NY-1)

	v00, v10 := g.At(i0, j0), g.At(i1, j0)
	v01, v11 := g.At(i0, j1), g.At(i1, j1)
	bottom := v00*(1-tx) + v10*tx
	top := v01*(1-tx) + v11*tx
	return bottom*(1-ty) + top*ty
}

// bicubic uses the Catmull-Rom kernel over a 4x4 neighbourhood with edge
// nodes repeated. A missing neighbour drops back to bilinear.
func (g *Grid) bicubic(fi, fj float64) float64 {
	i0, tx := split(fi, g.NX)
	j0, ty := split(fj, g.NY)

	var rows [4]float64
	for r := -1; r <= 2; r++ {
		j := clamp(j0+r, g.NY)
		var p [4]float64
		for c := -1; c <= 2; c++ {
			p[c+1] = g.At(clamp(i0+c, g.NX), j)
		}
		rows[r+1] = cubic(p, tx)
		if math.IsNaN(rows[r+1]) {
			return g.bilinear(fi, fj)
		}
	}
	return cubic(rows, ty)
}

func split(f float64, n int) (int, float64) {
	i := int(math.Floor(f))
	if i >= n-1 {
		return n - 1, 0
	}
	return i, f - float64(i)
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}

func cubic(p [4]float64, t float64) float64 {
	return p[1] + 0.5*t*(p[2]-p[0]+t*(2*p[0]-5*p[1]+4*p[2]-p[3]+t*(3*(p[1]-p[2])+p[3]-p[0])))
}
