// Package grid holds regular 2-D rasters in projected coordinates and the
// operations profiles need from them: file I/O, point sampling, statistics,
// trend removal, comparison and polygon masking.
package grid

import (
	"errors"
	"fmt"
	"math"

	"polarprofile.org/internal/region"
)

var (
	ErrMalformedGrid = errors.New("grid: malformed grid")
	ErrIncompatible  = errors.New("grid: grids are not aligned")
	ErrTooFewPoints  = errors.New("grid: too few valid nodes")
)

// Registration is the GMT node registration of a grid.
type Registration int

const (
	// Gridline nodes sit on the region edges.
	Gridline Registration = iota
	// Pixel nodes sit at cell centres, half a spacing inside the region.
	Pixel
)

func (r Registration) String() string {
	if r == Pixel {
		return "p"
	}
	return "g"
}

// ParseRegistration accepts "g"/"gridline" and "p"/"pixel".
func ParseRegistration(s string) (Registration, error) {
	switch s {
	case "g", "gridline", "":
		return Gridline, nil
	case "p", "pixel":
		return Pixel, nil
	}
	return Gridline, fmt.Errorf("unknown registration %q", s)
}

// Grid is a regular raster. Data is row-major with row 0 at YMin; NaN marks
// missing values.
type Grid struct {
	Region       region.Region
	Spacing      float64
	NX, NY       int
	Registration Registration
	Data         []float64
}

// New allocates a NaN-filled grid covering r.
func New(r region.Region, spacing float64, reg Registration) (*Grid, error) {
	if spacing <= 0 || math.IsNaN(spacing) {
		return nil, fmt.Errorf("%w: spacing must be positive, got %g", ErrMalformedGrid, spacing)
	}
	if r.Width() < 0 || r.Height() < 0 {
		return nil, fmt.Errorf("%w: inverted region %s", ErrMalformedGrid, r)
	}

	nx := int(math.Round(r.Width() / spacing))
	ny := int(math.Round(r.Height() / spacing))
	if reg == Gridline {
		nx++
		ny++
	}
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: region %s holds no nodes at spacing %g", ErrMalformedGrid, r, spacing)
	}

	g := &Grid{
		Region:       r,
		Spacing:      spacing,
		NX:           nx,
		NY:           ny,
		Registration: reg,
		Data:         make([]float64, nx*ny),
	}
	for i := range g.Data {
		g.Data[i] = math.NaN()
	}
	return g, nil
}

// FromFunc builds a grid with f evaluated at every node.
func FromFunc(r region.Region, spacing float64, reg Registration, f func(x, y float64) float64) (*Grid, error) {
	g, err := New(r, spacing, reg)
	if err != nil {
		return nil, err
	}
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			g.Set(i, j, f(g.X(i), g.Y(j)))
		}
	}
	return g, nil
}

// X returns the easting of column i.
func (g *Grid) X(i int) float64 {
	return g.x0() + float64(i)*g.Spacing
}

// Y returns the northing of row j.
func (g *Grid) Y(j int) float64 {
	return g.y0() + float64(j)*g.Spacing
}

func (g *Grid) x0() float64 {
	if g.Registration == Pixel {
		return g.Region.XMin + g.Spacing/2
	}
	return g.Region.XMin
}

func (g *Grid) y0() float64 {
	if g.Registration == Pixel {
		return g.Region.YMin + g.Spacing/2
	}
	return g.Region.YMin
}

func (g *Grid) At(i, j int) float64 {
	return g.Data[j*g.NX+i]
}

func (g *Grid) Set(i, j int, v float64) {
	g.Data[j*g.NX+i] = v
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Data = append([]float64(nil), g.Data...)
	return &c
}

// SameLayout reports whether g and o share region, spacing, size and registration.
func (g *Grid) SameLayout(o *Grid) bool {
	return g.Region == o.Region && g.Spacing == o.Spacing &&
		g.NX == o.NX && g.NY == o.NY && g.Registration == o.Registration
}

// Info summarises a grid like grdinfo.
type Info struct {
	Spacing      float64       `json:"spacing"`
	Region       region.Region `json:"region"`
	ZMin         float64       `json:"zmin"`
	ZMax         float64       `json:"zmax"`
	Registration string        `json:"registration"`
}

// Info reports spacing, region, value range and registration. ZMin and ZMax
// are NaN when every node is missing.
func (g *Grid) Info() Info {
	lo, hi := MinMax(g.Data, false)
	return Info{
		Spacing:      g.Spacing,
		Region:       g.Region,
		ZMin:         lo,
		ZMax:         hi,
		Registration: g.Registration.String(),
	}
}

// Sub returns g - o node by node.
func (g *Grid) Sub(o *Grid) (*Grid, error) {
	if !g.SameLayout(o) {
		return nil, ErrIncompatible
	}
	out := g.Clone()
	for i := range out.Data {
		out.Data[i] -= o.Data[i]
	}
	return out, nil
}
