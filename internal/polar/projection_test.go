package polar

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEPSG3031(t *testing.T) {
	p, err := NewEPSG3031()
	require.NoError(t, err)
	assert.Equal(t, 3031, p.EPSG())

	t.Run("south pole is the origin", func(t *testing.T) {
		x, y, err := p.FromLonLat(0, -90)
		require.NoError(t, err)
		assert.InDelta(t, 0, x, 1e-3)
		assert.InDelta(t, 0, y, 1e-3)
	})

	t.Run("true scale latitude", func(t *testing.T) {
		// 71°S lies a*m_c = 2082760.11 m from the pole on every meridian.
		testCases := []struct {
			lon, x, y float64
		}{
			{lon: 0, x: 0, y: 2082760.11},
			{lon: 90, x: 2082760.11, y: 0},
			{lon: 180, x: 0, y: -2082760.11},
			{lon: -90, x: -2082760.11, y: 0},
		}
		for _, tc := range testCases {
			x, y, err := p.FromLonLat(tc.lon, -71)
			require.NoError(t, err)
			assert.InDelta(t, tc.x, x, 0.01)
			assert.InDelta(t, tc.y, y, 0.01)
		}
	})

	t.Run("origin unprojects to the pole", func(t *testing.T) {
		_, lat, err := p.ToLonLat(0, 0)
		require.NoError(t, err)
		assert.InDelta(t, -90, lat, 1e-9)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		_, _, err := p.FromLonLat(0, -91)
		assert.Error(t, err)
		_, _, err = p.FromLonLat(math.NaN(), -80)
		assert.Error(t, err)
		_, _, err = p.ToLonLat(math.Inf(1), 0)
		assert.Error(t, err)
	})

	t.Run("east longitudes have positive x", func(t *testing.T) {
		x, y, err := p.FromLonLat(90, -75)
		require.NoError(t, err)
		assert.Greater(t, x, 0.0)
		assert.InDelta(t, 0, y, 1)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, ll := range []orb.Point{{166.7, -77.8}, {-60, -65}, {0.5, -89}} {
			x, y, err := p.FromLonLat(ll.Lon(), ll.Lat())
			require.NoError(t, err)
			lon, lat, err := p.ToLonLat(x, y)
			require.NoError(t, err)
			assert.InDelta(t, ll.Lon(), lon, 1e-6)
			assert.InDelta(t, ll.Lat(), lat, 1e-6)
		}
	})
}

func TestNonPolarDefinition(t *testing.T) {
	_, err := newStereographic(3413, "+proj=stere +lat_0=45 +lon_0=0 +datum=WGS84 +units=m")
	assert.ErrorIs(t, err, errNotPolar)
}

func TestBulkConversions(t *testing.T) {
	p, err := NewEPSG3031()
	require.NoError(t, err)

	lonlat := []orb.Point{{0, -80}, {45, -70}}
	xy, err := LatLonToEPSG3031(p, lonlat)
	require.NoError(t, err)
	require.Len(t, xy, 2)

	back, err := EPSG3031ToLatLon(p, xy)
	require.NoError(t, err)
	for i := range lonlat {
		assert.InDelta(t, lonlat[i].Lon(), back[i].Lon(), 1e-6)
		assert.InDelta(t, lonlat[i].Lat(), back[i].Lat(), 1e-6)
	}
}

func TestDD2DMS(t *testing.T) {
	testCases := []struct {
		dd   float64
		want string
	}{
		{dd: 0, want: "0:0:0"},
		{dd: -71.5, want: "-71:30:0"},
		{dd: 10.25, want: "10:15:0"},
		{dd: 30.0078125, want: "30:0:28.125"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, DD2DMS(tc.dd))
	}
}
