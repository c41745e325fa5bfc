package vertices

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"

	"polarprofile.org/internal/polar"
)

// DecodePolyline turns an encoded lat/lon polyline into projected vertices.
func DecodePolyline(encoded string, p polar.Projection) (orb.LineString, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding polyline: %w", err)
	}
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		x, y, err := p.FromLonLat(c[1], c[0])
		if err != nil {
			return nil, err
		}
		ls = append(ls, orb.Point{x, y})
	}
	return ls, nil
}

// EncodePolyline projects vertices back to lat/lon and encodes them.
func EncodePolyline(ls orb.LineString, p polar.Projection) (string, error) {
	coords := make([][]float64, 0, len(ls))
	for _, pt := range ls {
		lon, lat, err := p.ToLonLat(pt.X(), pt.Y())
		if err != nil {
			return "", err
		}
		coords = append(coords, []float64{lat, lon})
	}
	return string(polyline.EncodeCoords(coords)), nil
}
