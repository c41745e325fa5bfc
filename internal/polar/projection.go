// Package polar converts between geographic coordinates and the Antarctic
// Polar Stereographic projection (EPSG:3031) used for all profile geometry.
package polar

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

const epsg3031Definition = "+proj=stere +lat_0=-90 +lat_ts=-71 +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"

var (
	errNotPolar   = errors.New("polar: definition is not a polar stereographic projection")
	errBadLatLon  = errors.New("polar: latitude outside [-90, 90] or non-finite coordinate")
	errNoConverge = errors.New("polar: inverse latitude did not converge")
)

// Projection converts between WGS84 longitude/latitude (degrees) and a
// projected coordinate system in meters.
type Projection interface {
	FromLonLat(lon, lat float64) (x, y float64, err error)
	ToLonLat(x, y float64) (lon, lat float64, err error)
	EPSG() int
}

// Stereographic is an ellipsoidal polar stereographic projection built from
// a proj4 definition.
type Stereographic struct {
	code    int
	forward proj.Transformer
	inverse proj.Transformer
}

// NewEPSG3031 returns the Antarctic Polar Stereographic projection
// (true scale at 71°S, central meridian 0°).
func NewEPSG3031() (*Stereographic, error) {
	return newStereographic(3031, epsg3031Definition)
}

func newStereographic(code int, definition string) (*Stereographic, error) {
	sr, err := proj.Parse(definition)
	if err != nil {
		return nil, fmt.Errorf("parsing EPSG:%d definition: %w", code, err)
	}
	forward, inverse, err := polarStereographic(sr)
	if err != nil {
		return nil, fmt.Errorf("EPSG:%d: %w", code, err)
	}
	return &Stereographic{code: code, forward: forward, inverse: inverse}, nil
}

func (s *Stereographic) FromLonLat(lon, lat float64) (float64, float64, error) {
	return s.forward(lon, lat)
}

func (s *Stereographic) ToLonLat(x, y float64) (float64, float64, error) {
	return s.inverse(x, y)
}

func (s *Stereographic) EPSG() int { return s.code }

// polarStereographic has the shape of a proj.TransformerFunc. The library
// parses "+proj=stere" but registers no transformer for it, so the pole case
// is built here from the parsed ellipsoid (Snyder, Map Projections, 21-33 to
// 21-40). Transformers take and return degrees on the geographic side.
var _ proj.TransformerFunc = polarStereographic

func polarStereographic(sr *proj.SR) (forward, inverse proj.Transformer, err error) {
	if !strings.EqualFold(sr.Name, "stere") || math.Abs(math.Abs(sr.Lat0)-math.Pi/2) > 1e-10 {
		return nil, nil, errNotPolar
	}
	south := sr.Lat0 < 0
	e := sr.E
	toMeter := sr.ToMeter
	if math.IsNaN(toMeter) || toMeter == 0 {
		toMeter = 1
	}
	x0, y0, lon0 := orZero(sr.X0), orZero(sr.Y0), orZero(sr.Long0)

	// rho = scale * t(phi) with phi folded onto the north pole.
	var scale float64
	if latTS := math.Abs(sr.LatTS); !math.IsNaN(latTS) && math.Abs(latTS-math.Pi/2) > 1e-10 {
		sin, cos := math.Sincos(latTS)
		mc := cos / math.Sqrt(1-e*e*sin*sin)
		scale = sr.A * mc / tsfn(e, latTS)
	} else {
		scale = 2 * sr.A * sr.K0 / math.Sqrt(math.Pow(1+e, 1+e)*math.Pow(1-e, 1-e))
	}

	forward = func(lon, lat float64) (float64, float64, error) {
		if math.IsNaN(lon) || math.IsInf(lon, 0) || !(lat >= -90 && lat <= 90) {
			return math.NaN(), math.NaN(), errBadLatLon
		}
		phi := lat * math.Pi / 180
		dlam := lon*math.Pi/180 - lon0
		if south {
			phi = -phi
			dlam = -dlam
		}
		rho := scale * tsfn(e, phi)
		if math.IsInf(rho, 0) || math.IsNaN(rho) {
			return math.NaN(), math.NaN(), errBadLatLon
		}
		sin, cos := math.Sincos(dlam)
		x, y := rho*sin, -rho*cos
		if south {
			x, y = -x, -y
		}
		return (x + x0) / toMeter, (y + y0) / toMeter, nil
	}

	inverse = func(x, y float64) (float64, float64, error) {
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return math.NaN(), math.NaN(), errBadLatLon
		}
		x, y = x*toMeter-x0, y*toMeter-y0
		if south {
			x, y = -x, -y
		}
		rho := math.Hypot(x, y)
		phi, err := phiFromTs(e, rho/scale)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		lam := 0.0
		if rho > 0 {
			lam = math.Atan2(x, -y)
		}
		if south {
			phi = -phi
			lam = -lam
		}
		lon := normalizeLon(lam + lon0)
		return lon * 180 / math.Pi, phi * 180 / math.Pi, nil
	}
	return forward, inverse, nil
}

// tsfn is Snyder's t for the north pole aspect.
func tsfn(e, phi float64) float64 {
	con := e * math.Sin(phi)
	return math.Tan(0.5*(math.Pi/2-phi)) / math.Pow((1-con)/(1+con), 0.5*e)
}

func phiFromTs(e, ts float64) (float64, error) {
	phi := math.Pi/2 - 2*math.Atan(ts)
	for range 16 {
		con := e * math.Sin(phi)
		dphi := math.Pi/2 - 2*math.Atan(ts*math.Pow((1-con)/(1+con), 0.5*e)) - phi
		phi += dphi
		if math.Abs(dphi) <= 1e-12 {
			return phi, nil
		}
	}
	return math.NaN(), errNoConverge
}

func normalizeLon(lam float64) float64 {
	for lam > math.Pi {
		lam -= 2 * math.Pi
	}
	for lam < -math.Pi {
		lam += 2 * math.Pi
	}
	return lam
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// LatLonToEPSG3031 projects lon/lat points (orb.Point{lon, lat}) with p.
func LatLonToEPSG3031(p Projection, points []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(points))
	for i, pt := range points {
		x, y, err := p.FromLonLat(pt.Lon(), pt.Lat())
		if err != nil {
			return nil, fmt.Errorf("projecting point %d (%g, %g): %w", i, pt.Lon(), pt.Lat(), err)
		}
		out[i] = orb.Point{x, y}
	}
	return out, nil
}

// EPSG3031ToLatLon unprojects x/y points into orb.Point{lon, lat}.
func EPSG3031ToLatLon(p Projection, points []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(points))
	for i, pt := range points {
		lon, lat, err := p.ToLonLat(pt.X(), pt.Y())
		if err != nil {
			return nil, fmt.Errorf("unprojecting point %d (%g, %g): %w", i, pt.X(), pt.Y(), err)
		}
		out[i] = orb.Point{lon, lat}
	}
	return out, nil
}
