package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"polarprofile.org/internal/region"
)

// Blend merges g1 and g2 onto the union of their regions. Where both carry a
// value g1 wins; elsewhere whichever grid has data is used. The grids must
// share spacing and registration and their nodes must line up.
func Blend(g1, g2 *Grid) (*Grid, error) {
	if g1.Spacing != g2.Spacing || g1.Registration != g2.Registration {
		return nil, fmt.Errorf("%w: spacing %g/%g, registration %s/%s",
			ErrIncompatible, g1.Spacing, g2.Spacing, g1.Registration, g2.Registration)
	}
	if !onLattice(g2.x0()-g1.x0(), g1.Spacing) || !onLattice(g2.y0()-g1.y0(), g1.Spacing) {
		return nil, fmt.Errorf("%w: node offset between %s and %s", ErrIncompatible, g1.Region, g2.Region)
	}

	union := region.Region{
		XMin: math.Min(g1.Region.XMin, g2.Region.XMin),
		XMax: math.Max(g1.Region.XMax, g2.Region.XMax),
		YMin: math.Min(g1.Region.YMin, g2.Region.YMin),
		YMax: math.Max(g1.Region.YMax, g2.Region.YMax),
	}
	out, err := New(union, g1.Spacing, g1.Registration)
	if err != nil {
		return nil, err
	}
	for _, g := range []*Grid{g2, g1} {
		di := int(math.Round((g.x0() - out.x0()) / out.Spacing))
		dj := int(math.Round((g.y0() - out.y0()) / out.Spacing))
		for j := 0; j < g.NY; j++ {
			for i := 0; i < g.NX; i++ {
				if v := g.At(i, j); !math.IsNaN(v) {
					out.Set(i+di, j+dj, v)
				}
			}
		}
	}
	return out, nil
}

func onLattice(offset, spacing float64) bool {
	steps := offset / spacing
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// MaskValues are the node values MaskPoints writes outside the search radius,
// exactly on it, and inside it.
type MaskValues struct {
	Outside, Edge, Inside float64
}

// DefaultMaskValues marks nodes near a point with 1 and everything else 0.
var DefaultMaskValues = MaskValues{Outside: 0, Edge: 0, Inside: 1}

// MaskPoints builds a grid over r whose nodes lie within radius of any point.
// With a zero radius only the node nearest each point is marked inside.
func MaskPoints(points []orb.Point, r region.Region, spacing float64, reg Registration, radius float64, v MaskValues) (*Grid, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, fmt.Errorf("%w: mask radius must not be negative, got %g", ErrMalformedGrid, radius)
	}
	g, err := New(r, spacing, reg)
	if err != nil {
		return nil, err
	}

	const (
		outside = iota
		edge
		inside
	)
	state := make([]uint8, len(g.Data))
	tol := 1e-9 * spacing
	for _, p := range points {
		if radius == 0 {
			if !r.Contains(p) {
				continue
			}
			i := clamp(int(math.Round((p.X()-g.x0())/spacing)), g.NX)
			j := clamp(int(math.Round((p.Y()-g.y0())/spacing)), g.NY)
			state[j*g.NX+i] = inside
			continue
		}
		i0 := max(0, int(math.Ceil((p.X()-radius-g.x0())/spacing-1e-9)))
		i1 := min(g.NX-1, int(math.Floor((p.X()+radius-g.x0())/spacing+1e-9)))
		j0 := max(0, int(math.Ceil((p.Y()-radius-g.y0())/spacing-1e-9)))
		j1 := min(g.NY-1, int(math.Floor((p.Y()+radius-g.y0())/spacing+1e-9)))
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				d := planar.Distance(p, orb.Point{g.X(i), g.Y(j)})
				k := j*g.NX + i
				switch {
				case d < radius-tol:
					state[k] = inside
				case d <= radius+tol && state[k] == outside:
					state[k] = edge
				}
			}
		}
	}

	for k, s := range state {
		switch s {
		case inside:
			g.Data[k] = v.Inside
		case edge:
			g.Data[k] = v.Edge
		default:
			g.Data[k] = v.Outside
		}
	}
	return g, nil
}
