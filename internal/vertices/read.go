// Package vertices loads and converts the polylines profiles are built along.
package vertices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNoLine            = errors.New("vertices: no line geometry found")
	ErrUnsupportedFormat = errors.New("vertices: unsupported file format")
)

// ReadFile returns the first line in the file at path. The format is chosen
// by extension: .shp, .geojson/.json, .wkt or .csv (x and y columns).
func ReadFile(path string) (orb.LineString, error) {
	var (
		ls  orb.LineString
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		ls, err = readShapefile(path)
	case ".geojson", ".json":
		ls, err = readGeoJSON(path)
	case ".wkt":
		ls, err = readWKT(path)
	case ".csv":
		ls, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading vertices from %s: %w", path, err)
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLine, path)
	}
	return ls, nil
}

func readShapefile(path string) (orb.LineString, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for r.Next() {
		_, shape := r.Shape()
		switch s := shape.(type) {
		case *shp.PolyLine:
			return firstPart(s.Parts, s.Points), nil
		case *shp.Polygon:
			return firstPart(s.Parts, s.Points), nil
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoLine
}

func firstPart(parts []int32, points []shp.Point) orb.LineString {
	end := len(points)
	if len(parts) > 1 {
		end = int(parts[1])
	}
	ls := make(orb.LineString, 0, end)
	for _, p := range points[:end] {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	return ls
}

func readGeoJSON(path string) (orb.LineString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			if ls, ok := lineOf(f.Geometry); ok {
				return ls, nil
			}
		}
		return nil, ErrNoLine
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	if ls, ok := lineOf(g.Geometry()); ok {
		return ls, nil
	}
	return nil, ErrNoLine
}

func readWKT(path string) (orb.LineString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := wkt.Unmarshal(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, err
	}
	if ls, ok := lineOf(g); ok {
		return ls, nil
	}
	return nil, ErrNoLine
}

func lineOf(g orb.Geometry) (orb.LineString, bool) {
	switch v := g.(type) {
	case orb.LineString:
		return v, len(v) > 0
	case orb.MultiLineString:
		if len(v) > 0 {
			return v[0], len(v[0]) > 0
		}
	case orb.Polygon:
		if len(v) > 0 {
			return orb.LineString(v[0]), len(v[0]) > 0
		}
	}
	return nil, false
}

func readCSV(path string) (orb.LineString, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads vertices from a table with x and y header columns.
func ReadCSV(r io.Reader) (orb.LineString, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	xi, yi := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x":
			xi = i
		case "y":
			yi = i
		}
	}
	if xi < 0 || yi < 0 {
		return nil, fmt.Errorf("header %v needs x and y columns", header)
	}

	var ls orb.LineString
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(rec[xi], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(rec[yi], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		ls = append(ls, orb.Point{x, y})
	}
	return ls, nil
}

// FromTable pairs x and y columns into a polyline.
func FromTable(xs, ys []float64) (orb.LineString, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("vertex table has %d x values and %d y values", len(xs), len(ys))
	}
	ls := make(orb.LineString, len(xs))
	for i := range xs {
		ls[i] = orb.Point{xs[i], ys[i]}
	}
	return ls, nil
}
