// Package region implements bounding-region arithmetic in projected meters,
// using GMT ordering (xmin, xmax, ymin, ymax).
package region

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"polarprofile.org/internal/polar"
)

// ErrEmptyRegion is returned when a region is requested from no points.
var ErrEmptyRegion = errors.New("region: no points")

// Region is a bounding box in GMT order.
type Region struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// FromBound converts an orb.Bound.
func FromBound(b orb.Bound) Region {
	return Region{XMin: b.Min.X(), XMax: b.Max.X(), YMin: b.Min.Y(), YMax: b.Max.Y()}
}

// FromPoints returns the smallest region containing all points.
func FromPoints(points []orb.Point) (Region, error) {
	if len(points) == 0 {
		return Region{}, ErrEmptyRegion
	}
	return FromBound(orb.MultiPoint(points).Bound()), nil
}

// Parse reads a GMT "xmin/xmax/ymin/ymax" string.
func Parse(s string) (Region, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: expected xmin/xmax/ymin/ymax", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = f
	}
	return Region{XMin: v[0], XMax: v[1], YMin: v[2], YMax: v[3]}, nil
}

func (r Region) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.XMin, r.YMin}, Max: orb.Point{r.XMax, r.YMax}}
}

func (r Region) Width() float64  { return r.XMax - r.XMin }
func (r Region) Height() float64 { return r.YMax - r.YMin }

// Contains reports whether p lies inside r, edges included.
func (r Region) Contains(p orb.Point) bool {
	return p.X() >= r.XMin && p.X() <= r.XMax && p.Y() >= r.YMin && p.Y() <= r.YMax
}

// Intersect returns the inner region shared by r and o.
func (r Region) Intersect(o Region) Region {
	return Region{
		XMin: math.Max(r.XMin, o.XMin),
		XMax: math.Min(r.XMax, o.XMax),
		YMin: math.Max(r.YMin, o.YMin),
		YMax: math.Min(r.YMax, o.YMax),
	}
}

// String formats r as a GMT region string.
func (r Region) String() string {
	vals := []float64{r.XMin, r.XMax, r.YMin, r.YMax}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, "/")
}

// Corners returns bottom-left, bottom-right, top-left and top-right corners.
func (r Region) Corners() []orb.Point {
	return []orb.Point{
		{r.XMin, r.YMin},
		{r.XMax, r.YMin},
		{r.XMin, r.YMax},
		{r.XMax, r.YMax},
	}
}

// FromCorners is the inverse of Corners.
func FromCorners(corners []orb.Point) (Region, error) {
	if len(corners) != 4 {
		return Region{}, fmt.Errorf("region: expected 4 corners, got %d", len(corners))
	}
	return Region{
		XMin: corners[0].X(),
		XMax: corners[1].X(),
		YMin: corners[0].Y(),
		YMax: corners[2].Y(),
	}, nil
}

// BoundingBox returns [xmin, ymin, xmax, ymax].
func (r Region) BoundingBox() [4]float64 {
	return [4]float64{r.XMin, r.YMin, r.XMax, r.YMax}
}

// Alter zooms (positive zooms in), shifts north and west, and additionally
// returns a region grown by buffer on every side. Buffered edges are
// truncated to whole meters.
func (r Region) Alter(zoom, nShift, wShift, buffer float64) (Region, Region) {
	altered := Region{
		XMin: r.XMin + zoom + wShift,
		XMax: r.XMax - zoom + wShift,
		YMin: r.YMin + zoom - nShift,
		YMax: r.YMax - zoom - nShift,
	}
	buffered := Region{
		XMin: math.Trunc(altered.XMin - buffer),
		XMax: math.Trunc(altered.XMax + buffer),
		YMin: math.Trunc(altered.YMin - buffer),
		YMax: math.Trunc(altered.YMax + buffer),
	}
	return altered, buffered
}

// Scale describes a map frame fitted to a region.
type Scale struct {
	Proj       string  // GMT cartesian projection, "x1:<ratio>"
	ProjLatLon string  // GMT polar stereographic projection for lat/lon overlays
	Width      float64 // cm
	Height     float64 // cm
}

// FigureScale fits r into a figure of the given height (cm), or of the given
// width when width > 0, preserving aspect ratio.
func FigureScale(r Region, height, width float64) Scale {
	var ratio float64
	if width > 0 {
		height = width * r.Height() / r.Width()
		ratio = r.Width() / (width / 100)
	} else {
		width = height * r.Width() / r.Height()
		ratio = r.Height() / (height / 100)
	}
	s := strconv.FormatFloat(ratio, 'f', -1, 64)
	return Scale{
		Proj:       "x1:" + s,
		ProjLatLon: "s0/-90/-71/1:" + s,
		Width:      width,
		Height:     height,
	}
}

// ToLatLon returns the lon/lat extent of r's corners as
// Region{XMin: lonMin, XMax: lonMax, YMin: latMin, YMax: latMax}.
func ToLatLon(r Region, p polar.Projection) (Region, error) {
	lonlat, err := polar.EPSG3031ToLatLon(p, r.Corners())
	if err != nil {
		return Region{}, err
	}
	return FromPoints(lonlat)
}

// ToLatLonDMS is ToLatLon with each bound formatted as D:M:S.
func ToLatLonDMS(r Region, p polar.Projection) ([4]string, error) {
	ll, err := ToLatLon(r, p)
	if err != nil {
		return [4]string{}, err
	}
	return [4]string{
		polar.DD2DMS(ll.XMin),
		polar.DD2DMS(ll.XMax),
		polar.DD2DMS(ll.YMin),
		polar.DD2DMS(ll.YMax),
	}, nil
}

// PointsInside returns the indices of points inside r, or outside it when
// reverse is set.
func PointsInside(points []orb.Point, r Region, reverse bool) []int {
	var idx []int
	for i, p := range points {
		if r.Contains(p) != reverse {
			idx = append(idx, i)
		}
	}
	return idx
}

// FromPolygon projects the first lon/lat shape and returns its region.
// Further shapes are ignored.
func FromPolygon(shapes [][]orb.Point, p polar.Projection) (Region, error) {
	if len(shapes) == 0 {
		return Region{}, ErrEmptyRegion
	}
	xy, err := polar.LatLonToEPSG3031(p, shapes[0])
	if err != nil {
		return Region{}, err
	}
	return FromPoints(xy)
}
