package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Shorten keeps the rows with minDist < dist < maxDist and recomputes dist
// as the straight-line distance from the first kept row. Nil bounds default
// to the profile's own extremes, so the end rows are always dropped. Index
// labels of kept rows are preserved.
func Shorten(p *Profile, maxDist, minDist *float64) (*Profile, error) {
	if p.Len() == 0 {
		return nil, ErrEmptyProfile
	}
	hi := floats.Max(p.Dist)
	if maxDist != nil {
		hi = *maxDist
	}
	lo := floats.Min(p.Dist)
	if minDist != nil {
		lo = *minDist
	}

	out := &Profile{Layers: make([]Column, len(p.Layers))}
	for i, l := range p.Layers {
		out.Layers[i].Name = l.Name
	}
	for i, d := range p.Dist {
		if !(d > lo && d < hi) {
			continue
		}
		out.Index = append(out.Index, p.Index[i])
		out.X = append(out.X, p.X[i])
		out.Y = append(out.Y, p.Y[i])
		for k, l := range p.Layers {
			out.Layers[k].Values = append(out.Layers[k].Values, l.Values[i])
		}
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: no dist strictly between %g and %g", ErrEmptyProfile, lo, hi)
	}

	out.Dist = distFromFirst(out.X, out.Y)
	return out, nil
}

// Float returns a pointer to v, for optional Shorten bounds.
func Float(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
