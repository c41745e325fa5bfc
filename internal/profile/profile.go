// Package profile builds cross-section profiles: point sequences along a
// straight line or polyline with their along-line distance, and the grid
// values sampled at each point.
package profile

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

var (
	ErrInvalidConfig  = errors.New("profile: invalid configuration")
	ErrEmptyProfile   = errors.New("profile: no points left")
	ErrProfileAltered = errors.New("profile: sampling altered existing columns")
)

// Column is a named layer of values, one per profile row. NaN is no-data.
type Column struct {
	Name   string
	Values []float64
}

// Profile is an ordered table of points. Index holds row labels which
// survive filtering.
type Profile struct {
	Index  []int
	X      []float64
	Y      []float64
	Dist   []float64
	Layers []Column
}

func (p *Profile) Len() int { return len(p.X) }

// Columns lists column names in table order.
func (p *Profile) Columns() []string {
	cols := []string{"x", "y", "dist"}
	for _, l := range p.Layers {
		cols = append(cols, l.Name)
	}
	return cols
}

// Layer returns the values of the named layer.
func (p *Profile) Layer(name string) ([]float64, bool) {
	for _, l := range p.Layers {
		if l.Name == name {
			return l.Values, true
		}
	}
	return nil, false
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := &Profile{
		Index:  append([]int(nil), p.Index...),
		X:      append([]float64(nil), p.X...),
		Y:      append([]float64(nil), p.Y...),
		Dist:   append([]float64(nil), p.Dist...),
		Layers: make([]Column, len(p.Layers)),
	}
	for i, l := range p.Layers {
		c.Layers[i] = Column{Name: l.Name, Values: append([]float64(nil), l.Values...)}
	}
	return c
}

// Points returns the profile path.
func (p *Profile) Points() orb.LineString {
	ls := make(orb.LineString, p.Len())
	for i := range ls {
		ls[i] = orb.Point{p.X[i], p.Y[i]}
	}
	return ls
}

// Region is the bounding box of the profile points.
func Region(p *Profile) orb.Bound {
	return orb.MultiPoint(p.Points()).Bound()
}

func sequence(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// distFromFirst is the straight-line distance of every point from point 0.
func distFromFirst(xs, ys []float64) []float64 {
	dist := make([]float64, len(xs))
	for i := range xs {
		dist[i] = math.Hypot(xs[i]-xs[0], ys[i]-ys[0])
	}
	return dist
}

// cumulativeDist is the running arc length along the path.
func cumulativeDist(xs, ys []float64) []float64 {
	dist := make([]float64, len(xs))
	for i := 1; i < len(xs); i++ {
		dist[i] = dist[i-1] + math.Hypot(xs[i]-xs[i-1], ys[i]-ys[i-1])
	}
	return dist
}
