package vertices

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"polarprofile.org/internal/polar"
)

// Collector accumulates lines drawn on a map. Draw callbacks may arrive from
// any goroutine.
type Collector struct {
	mu     sync.Mutex
	lines  [][]orb.Point
	logger *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

// OnDraw records the feature's lon/lat vertices when action is "created".
// Edits and deletions are ignored.
func (c *Collector) OnDraw(action string, f *geojson.Feature) error {
	if action != "created" {
		c.logger.Debug("ignoring draw action", slog.String("action", action))
		return nil
	}
	if f == nil || f.Geometry == nil {
		return fmt.Errorf("%w: empty feature", ErrNoLine)
	}
	ls, ok := lineOf(f.Geometry)
	if !ok {
		return fmt.Errorf("%w: got %s", ErrNoLine, f.Geometry.GeoJSONType())
	}

	c.mu.Lock()
	c.lines = append(c.lines, append([]orb.Point(nil), ls...))
	n := len(c.lines)
	c.mu.Unlock()

	c.logger.Info("line drawn", slog.Int("vertices", len(ls)), slog.Int("lines", n))
	return nil
}

// Lines returns a copy of the collected lines in lon/lat.
func (c *Collector) Lines() [][]orb.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]orb.Point, len(c.lines))
	for i, l := range c.lines {
		out[i] = append([]orb.Point(nil), l...)
	}
	return out
}

func (c *Collector) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// ShapePoint is one vertex of a drawn shape in both coordinate systems.
type ShapePoint struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shape int     `json:"shapeNum"`
}

// ShapesToPoints flattens lon/lat shapes into projected points tagged with
// the index of the shape they came from.
func ShapesToPoints(shapes [][]orb.Point, p polar.Projection) ([]ShapePoint, error) {
	var out []ShapePoint
	for i, shape := range shapes {
		for _, pt := range shape {
			x, y, err := p.FromLonLat(pt.X(), pt.Y())
			if err != nil {
				return nil, err
			}
			out = append(out, ShapePoint{Lon: pt.X(), Lat: pt.Y(), X: x, Y: y, Shape: i})
		}
	}
	return out, nil
}

// Projected returns shape i of ShapesToPoints output as a polyline.
func Projected(points []ShapePoint, shape int) orb.LineString {
	var ls orb.LineString
	for _, p := range points {
		if p.Shape == shape {
			ls = append(ls, orb.Point{p.X, p.Y})
		}
	}
	return ls
}
