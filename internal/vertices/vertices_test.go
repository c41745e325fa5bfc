package vertices

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarprofile.org/internal/polar"
)

var line = orb.LineString{{0, 0}, {3, 4}, {3, 9}}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Run("shapefile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "line.shp")
		w, err := shp.Create(path, shp.POLYLINE)
		require.NoError(t, err)
		w.Write(shp.NewPolyLine([][]shp.Point{
			{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 9}},
			{{X: 100, Y: 100}, {X: 200, Y: 200}},
		}))
		w.Close()

		ls, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, line, ls)
	})

	t.Run("geojson", func(t *testing.T) {
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(orb.Point{1, 1}))
		fc.Append(geojson.NewFeature(line))
		data, err := fc.MarshalJSON()
		require.NoError(t, err)

		ls, err := ReadFile(writeFile(t, "line.geojson", string(data)))
		require.NoError(t, err)
		assert.Equal(t, line, ls)
	})

	t.Run("geojson geometry", func(t *testing.T) {
		ls, err := ReadFile(writeFile(t, "line.json",
			`{"type":"MultiLineString","coordinates":[[[0,0],[3,4],[3,9]],[[5,5],[6,6]]]}`))
		require.NoError(t, err)
		assert.Equal(t, line, ls)
	})

	t.Run("wkt", func(t *testing.T) {
		ls, err := ReadFile(writeFile(t, "line.wkt", "LINESTRING(0 0,3 4,3 9)\n"))
		require.NoError(t, err)
		assert.Equal(t, line, ls)
	})

	t.Run("csv", func(t *testing.T) {
		ls, err := ReadFile(writeFile(t, "line.csv", "id,x,y\na,0,0\nb,3,4\nc,3,9\n"))
		require.NoError(t, err)
		assert.Equal(t, line, ls)
	})

	t.Run("csv without columns", func(t *testing.T) {
		_, err := ReadFile(writeFile(t, "line.csv", "lon,lat\n0,0\n"))
		assert.Error(t, err)
	})

	t.Run("no line", func(t *testing.T) {
		_, err := ReadFile(writeFile(t, "point.wkt", "POINT(1 2)"))
		assert.ErrorIs(t, err, ErrNoLine)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := ReadFile("line.kml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.shp"))
		assert.Error(t, err)
	})
}

func TestReadCSVBadValue(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("x,y\n1,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFromTable(t *testing.T) {
	ls, err := FromTable([]float64{0, 3, 3}, []float64{0, 4, 9})
	require.NoError(t, err)
	assert.Equal(t, line, ls)

	_, err = FromTable([]float64{0}, nil)
	assert.Error(t, err)
}

func TestPolylineRoundTrip(t *testing.T) {
	proj, err := polar.NewEPSG3031()
	require.NoError(t, err)

	path := orb.LineString{{-1000000, 500000}, {-900000, 450000}, {-850000, 300000}}
	encoded, err := EncodePolyline(path, proj)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	back, err := DecodePolyline(encoded, proj)
	require.NoError(t, err)
	require.Len(t, back, len(path))
	for i := range path {
		assert.InDelta(t, path[i].X(), back[i].X(), 5, "x of vertex %d", i)
		assert.InDelta(t, path[i].Y(), back[i].Y(), 5, "y of vertex %d", i)
	}

	_, err = DecodePolyline("_", proj)
	assert.Error(t, err)
}

func TestCollector(t *testing.T) {
	c := NewCollector(nil)

	drawn := orb.LineString{{-60, -75}, {-55, -76}}
	require.NoError(t, c.OnDraw("created", geojson.NewFeature(drawn)))
	require.NoError(t, c.OnDraw("edited", geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}})))
	assert.Error(t, c.OnDraw("created", geojson.NewFeature(orb.Point{1, 2})))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, []orb.Point(drawn), lines[0])

	// returned slices are copies
	lines[0][0] = orb.Point{99, 99}
	assert.Equal(t, orb.Point{-60, -75}, c.Lines()[0][0])

	t.Run("concurrent draws", func(t *testing.T) {
		c.Clear()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.OnDraw("created", geojson.NewFeature(drawn))
			}()
		}
		wg.Wait()
		assert.Len(t, c.Lines(), 20)
	})

	c.Clear()
	assert.Empty(t, c.Lines())
}

func TestShapesToPoints(t *testing.T) {
	proj, err := polar.NewEPSG3031()
	require.NoError(t, err)

	shapes := [][]orb.Point{
		{{0, -80}, {90, -80}},
		{{180, -85}},
	}
	pts, err := ShapesToPoints(shapes, proj)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, 0, pts[1].Shape)
	assert.Equal(t, 1, pts[2].Shape)
	assert.Greater(t, pts[1].X, 0.0)

	assert.Len(t, Projected(pts, 0), 2)
	assert.Len(t, Projected(pts, 1), 1)
}
