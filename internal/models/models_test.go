package models

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/profile"
	"polarprofile.org/internal/region"
)

func TestNewEntryResponse(t *testing.T) {
	entry := map[string]string{"id": "bed"}
	refs := NewEmptyReferences()

	response := NewEntryResponse(entry, refs)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.InDelta(t, time.Now().UnixNano()/int64(time.Millisecond), response.CurrentTime, 100)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entry, data["entry"])
	assert.Equal(t, refs, data["references"])
}

func TestNewListResponse(t *testing.T) {
	response := NewListResponse([]string{"a", "b"}, NewLayerReferences(catalog.DefaultLayers()))
	data := response.Data.(map[string]interface{})
	assert.False(t, data["limitExceeded"].(bool))
	refs := data["references"].(ReferencesModel)
	assert.Len(t, refs.Layers, 3)
	assert.Equal(t, "surface", refs.Layers[0].ID)
}

func TestNullableFloat(t *testing.T) {
	assert.Nil(t, NullableFloat(math.NaN()))
	assert.Nil(t, NullableFloat(math.Inf(1)))
	assert.Equal(t, 2.5, *NullableFloat(2.5))
}

func TestGridInfoEntry(t *testing.T) {
	g, err := grid.New(region.Region{XMin: 0, XMax: 2, YMin: 0, YMax: 2}, 1, grid.Pixel)
	require.NoError(t, err)

	entry := NewGridInfoEntry("empty", g)
	assert.Nil(t, entry.ZMin)
	assert.Equal(t, "p", entry.Registration)

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"zmin":null`)
	assert.Contains(t, string(data), `"xmax":2`)
}

func TestNewGridComparisonEntry(t *testing.T) {
	diff, err := grid.FromFunc(region.Region{XMin: 0, XMax: 2, YMin: 0, YMax: 2}, 1, grid.Gridline,
		func(x, y float64) float64 { return x - y })
	require.NoError(t, err)

	c := &grid.Comparison{
		Diff:       diff,
		RMSE:       math.NaN(),
		Limits:     [2]float64{-5, 10},
		DiffLimits: [2]float64{-2, 2},
	}
	entry := NewGridComparisonEntry("surface", "bed", c)

	assert.Equal(t, "surface", entry.Grid1)
	assert.Equal(t, "bed", entry.Grid2)
	assert.Nil(t, entry.RMSE)
	assert.Equal(t, -5.0, *entry.Limits[0])
	assert.Equal(t, 2.0, *entry.DiffLimits[1])
	assert.Equal(t, "surface-bed", entry.Diff.LayerID)
	assert.Equal(t, 3, entry.Diff.NX)

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rmse":null`)
	assert.Contains(t, string(data), `"diffLimits":[-2,2]`)
}

func TestNewProfileEntry(t *testing.T) {
	proj, err := polar.NewEPSG3031()
	require.NoError(t, err)

	p, err := profile.Create(t.Context(), profile.MethodVerticesFromTable, profile.Options{
		Table: orb.LineString{{-1000000, 0}, {-999000, 0}, {-999000, 1000}},
	})
	require.NoError(t, err)
	p.Layers = []profile.Column{{Name: "bed", Values: []float64{1, math.NaN(), 3}}}

	entry, err := NewProfileEntry(p, proj)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "dist", "bed"}, entry.Columns)
	assert.Equal(t, 2000.0, entry.Length)
	require.Len(t, entry.Points, 3)
	assert.Nil(t, entry.Points[1].Values["bed"])
	assert.Equal(t, 3.0, *entry.Points[2].Values["bed"])
	assert.Less(t, entry.Points[0].Lat, -80.0)
	assert.NotEmpty(t, entry.Polyline)

	_, err = json.Marshal(entry)
	assert.NoError(t, err)
}

func TestNewRegionEntry(t *testing.T) {
	proj, err := polar.NewEPSG3031()
	require.NoError(t, err)

	r := region.Region{XMin: -100000, XMax: 100000, YMin: -100000, YMax: 100000}
	entry, err := NewRegionEntry(r, r, proj)
	require.NoError(t, err)
	assert.Equal(t, "-100000/100000/-100000/100000", entry.GMT)
	assert.Len(t, entry.Corners, 4)
	assert.Less(t, entry.LatLon.YMax, -88.0)
}
