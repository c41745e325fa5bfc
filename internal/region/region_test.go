package region

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"polarprofile.org/internal/polar"
)

func TestRegionBasics(t *testing.T) {
	r := Region{XMin: -1e6, XMax: 5e5, YMin: -2e6, YMax: 0}

	assert.Equal(t, "-1000000/500000/-2000000/0", r.String())
	assert.Equal(t, [4]float64{-1e6, -2e6, 5e5, 0}, r.BoundingBox())
	assert.True(t, r.Contains(orb.Point{-1e6, 0}))
	assert.False(t, r.Contains(orb.Point{6e5, -1}))

	parsed, err := Parse(r.String())
	require.NoError(t, err)
	assert.Equal(t, r, parsed)

	_, err = Parse("1/2/3")
	assert.Error(t, err)
}

func TestCornersRoundTrip(t *testing.T) {
	r := Region{XMin: 0, XMax: 10, YMin: -5, YMax: 5}
	corners := r.Corners()
	assert.Equal(t, []orb.Point{{0, -5}, {10, -5}, {0, 5}, {10, 5}}, corners)

	back, err := FromCorners(corners)
	require.NoError(t, err)
	assert.Equal(t, r, back)

	_, err = FromCorners(corners[:3])
	assert.Error(t, err)
}

func TestAlter(t *testing.T) {
	r := Region{XMin: -100, XMax: 100, YMin: -200, YMax: 200}

	t.Run("zoom shrinks every side", func(t *testing.T) {
		altered, _ := r.Alter(10, 0, 0, 0)
		assert.Equal(t, Region{XMin: -90, XMax: 90, YMin: -190, YMax: 190}, altered)
	})

	t.Run("shifts move the window", func(t *testing.T) {
		altered, _ := r.Alter(0, 5, 7, 0)
		assert.Equal(t, Region{XMin: -93, XMax: 107, YMin: -205, YMax: 195}, altered)
	})

	t.Run("buffer grows and truncates", func(t *testing.T) {
		_, buffered := r.Alter(0, 0, 0, 10.7)
		assert.Equal(t, Region{XMin: -110, XMax: 110, YMin: -210, YMax: 210}, buffered)
	})
}

func TestFigureScale(t *testing.T) {
	r := Region{XMin: 0, XMax: 2e6, YMin: 0, YMax: 1e6}

	byHeight := FigureScale(r, 10, 0)
	assert.InDelta(t, 20, byHeight.Width, 1e-9)
	assert.InDelta(t, 10, byHeight.Height, 1e-9)
	assert.Equal(t, "x1:10000000", byHeight.Proj)
	assert.Equal(t, "s0/-90/-71/1:10000000", byHeight.ProjLatLon)

	byWidth := FigureScale(r, 0, 10)
	assert.InDelta(t, 5, byWidth.Height, 1e-9)
	assert.Equal(t, "x1:20000000", byWidth.Proj)
}

func TestPointsInside(t *testing.T) {
	r := Region{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	points := []orb.Point{{0.5, 0.5}, {2, 2}, {1, 1}, {-1, 0}}

	assert.Equal(t, []int{0, 2}, PointsInside(points, r, false))
	assert.Equal(t, []int{1, 3}, PointsInside(points, r, true))
}

func TestIntersect(t *testing.T) {
	a := Region{XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	b := Region{XMin: 5, XMax: 15, YMin: -5, YMax: 8}
	assert.Equal(t, Region{XMin: 5, XMax: 10, YMin: 0, YMax: 8}, a.Intersect(b))
}

func TestLatLonConversions(t *testing.T) {
	p, err := polar.NewEPSG3031()
	require.NoError(t, err)

	r := Region{XMin: -1e5, XMax: 1e5, YMin: -1e5, YMax: 1e5}
	ll, err := ToLatLon(r, p)
	require.NoError(t, err)
	assert.Less(t, ll.YMax, -88.0)
	assert.InDelta(t, -135, ll.XMin, 1e-6)
	assert.InDelta(t, 135, ll.XMax, 1e-6)

	dms, err := ToLatLonDMS(r, p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dms[0], "-13"), dms[0])

	shape := []orb.Point{{0, -80}, {10, -80}, {10, -82}}
	poly, err := FromPolygon([][]orb.Point{shape, {{100, -60}}}, p)
	require.NoError(t, err)
	projected, err := polar.LatLonToEPSG3031(p, shape)
	require.NoError(t, err)
	want, err := FromPoints(projected)
	require.NoError(t, err)
	assert.Equal(t, want, poly)

	_, err = FromPolygon(nil, p)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestSquareSubplots(t *testing.T) {
	testCases := []struct {
		n, rows, cols int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{5, 2, 3},
		{10, 3, 4},
		{13, 3, 5},
		{14, 4, 4},
		{16, 4, 4},
	}
	for _, tc := range testCases {
		rows, cols := SquareSubplots(tc.n)
		assert.Equal(t, tc.rows, rows, "rows for %d", tc.n)
		assert.Equal(t, tc.cols, cols, "cols for %d", tc.n)
	}
}
