package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"polarprofile.org/internal/region"
)

// Cut returns the nodes of g that fall inside r. The result's region is
// snapped to the retained nodes.
func (g *Grid) Cut(r region.Region) (*Grid, error) {
	const eps = 1e-9
	i0 := int(math.Ceil((r.XMin-g.x0())/g.Spacing - eps))
	i1 := int(math.Floor((r.XMax-g.x0())/g.Spacing + eps))
	j0 := int(math.Ceil((r.YMin-g.y0())/g.Spacing - eps))
	j1 := int(math.Floor((r.YMax-g.y0())/g.Spacing + eps))
	i0, j0 = max(i0, 0), max(j0, 0)
	i1, j1 = min(i1, g.NX-1), min(j1, g.NY-1)
	if i0 > i1 || j0 > j1 {
		return nil, fmt.Errorf("%w: cut region %s misses grid %s", region.ErrEmptyRegion, r, g.Region)
	}

	half := 0.0
	if g.Registration == Pixel {
		half = g.Spacing / 2
	}
	out := &Grid{
		Region: region.Region{
			XMin: g.X(i0) - half, XMax: g.X(i1) + half,
			YMin: g.Y(j0) - half, YMax: g.Y(j1) + half,
		},
		Spacing:      g.Spacing,
		NX:           i1 - i0 + 1,
		NY:           j1 - j0 + 1,
		Registration: g.Registration,
	}
	out.Data = make([]float64, 0, out.NX*out.NY)
	for j := j0; j <= j1; j++ {
		out.Data = append(out.Data, g.Data[j*g.NX+i0:j*g.NX+i1+1]...)
	}
	return out, nil
}

// Resample interpolates g bilinearly onto a new lattice.
func (g *Grid) Resample(r region.Region, spacing float64, reg Registration) (*Grid, error) {
	out, err := New(r, spacing, reg)
	if err != nil {
		return nil, err
	}
	for j := 0; j < out.NY; j++ {
		for i := 0; i < out.NX; i++ {
			out.Set(i, j, g.Value(out.X(i), out.Y(j), Bilinear))
		}
	}
	return out, nil
}

// CompareOptions tunes Compare. Zero values mean "derive from the inputs".
type CompareOptions struct {
	Region       *region.Region
	Registration *Registration
	Robust       bool
	// Mask restricts the colour limits to nodes inside the polygon.
	Mask orb.Polygon
}

// Comparison is the result of differencing two grids on a common lattice.
type Comparison struct {
	Diff       *Grid
	Grid1      *Grid
	Grid2      *Grid
	RMSE       float64
	Limits     [2]float64
	DiffLimits [2]float64
}

// Compare brings two grids onto a common lattice and returns grid1 - grid2.
// Mismatched grids are resampled to the finer spacing over their shared
// region.
func Compare(g1, g2 *Grid, opts CompareOptions) (*Comparison, error) {
	var err error
	if opts.Region != nil {
		if g1, err = g1.Cut(*opts.Region); err != nil {
			return nil, err
		}
		if g2, err = g2.Cut(*opts.Region); err != nil {
			return nil, err
		}
	}

	reg := g1.Registration
	if opts.Registration != nil {
		reg = *opts.Registration
	}

	if !g1.SameLayout(g2) || reg != g1.Registration {
		spacing := math.Min(g1.Spacing, g2.Spacing)
		shared := g1.Region.Intersect(g2.Region)
		if shared.Width() < 0 || shared.Height() < 0 {
			return nil, fmt.Errorf("%w: %s and %s do not overlap", ErrIncompatible, g1.Region, g2.Region)
		}
		if g1, err = g1.Resample(shared, spacing, reg); err != nil {
			return nil, err
		}
		if g2, err = g2.Resample(shared, spacing, reg); err != nil {
			return nil, err
		}
	}

	diff, err := g1.Sub(g2)
	if err != nil {
		return nil, err
	}

	c := &Comparison{Diff: diff, Grid1: g1, Grid2: g2, RMSE: RMSE(diff.Data, false)}

	var lo1, hi1, lo2, hi2, dlo, dhi float64
	if opts.Mask != nil {
		lo1, hi1 = g1.MinMaxMasked(opts.Mask, opts.Robust)
		lo2, hi2 = g2.MinMaxMasked(opts.Mask, opts.Robust)
		dlo, dhi = diff.MinMaxMasked(opts.Mask, opts.Robust)
	} else {
		lo1, hi1 = g1.MinMax(opts.Robust)
		lo2, hi2 = g2.MinMax(opts.Robust)
		dlo, dhi = diff.MinMax(opts.Robust)
	}
	c.Limits = [2]float64{math.Min(lo1, lo2), math.Max(hi1, hi2)}
	lim := math.Max(math.Abs(dlo), math.Abs(dhi))
	c.DiffLimits = [2]float64{-lim, lim}
	return c, nil
}

// MaskPolygon returns a copy of g with nodes outside poly set to NaN, or
// nodes inside when invert is true.
func (g *Grid) MaskPolygon(poly orb.Polygon, invert bool) *Grid {
	out := g.Clone()
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			inside := planar.PolygonContains(poly, orb.Point{g.X(i), g.Y(j)})
			if inside == invert {
				out.Set(i, j, math.NaN())
			}
		}
	}
	return out
}
