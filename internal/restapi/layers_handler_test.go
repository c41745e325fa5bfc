package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayersHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("lists every layer in catalogue order", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/layers.json?key=TEST")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list := listOf(t, model)
		require.Len(t, list, 4)
		first := list[0].(map[string]interface{})
		assert.Equal(t, "surface", first["id"])
		assert.Equal(t, "lightskyblue", first["color"])
	})

	t.Run("filters by kind", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/layers.json?key=TEST&kind=data")
		list := listOf(t, model)
		require.Len(t, list, 1)
		assert.Equal(t, "gravity", list[0].(map[string]interface{})["id"])
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		resp, fieldErrors := serveForFieldErrors(t, api, http.MethodGet, "/api/layers.json?key=TEST&kind=other", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors, "kind")
	})
}

func TestLayerHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("returns the layer", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/layer/bed.json?key=TEST")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		entry := entryOf(t, model)
		assert.Equal(t, "bed", entry["id"])
		assert.Equal(t, "bed.asc", entry["path"])
		assert.Equal(t, "lightbrown", entry["color"])
		assert.Equal(t, "layer", entry["kind"])
	})

	t.Run("unknown layer", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/layer/nope.json?key=TEST")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "resource not found", model.Text)
		assert.Nil(t, model.Data)
	})

	t.Run("requires valid api key", func(t *testing.T) {
		resp, _ := serveApiAndRetrieveEndpoint(t, api, "/api/layer/bed.json?key=INVALID")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGridInfoHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/grid-info/bed.json?key=TEST")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "bed", entry["layerId"])
	assert.Equal(t, 10000.0, entry["spacing"])
	assert.Equal(t, 21.0, entry["nx"])
	assert.Equal(t, 21.0, entry["ny"])
	assert.InDelta(t, -300.0, entry["zmin"], 1e-9)
	assert.InDelta(t, -100.0, entry["zmax"], 1e-9)
	assert.Equal(t, "g", entry["registration"])

	region := entry["region"].(map[string]interface{})
	assert.Equal(t, -100000.0, region["xmin"])
	assert.Equal(t, 100000.0, region["ymax"])

	refs := model.Data.(map[string]interface{})["references"].(map[string]interface{})
	assert.Len(t, refs["layers"], 1)

	t.Run("unknown layer", func(t *testing.T) {
		resp, _ := serveApiAndRetrieveEndpoint(t, api, "/api/grid-info/nope?key=TEST")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGridCompareHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("differences two layers", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/grid-compare.json?key=TEST&grid1=surface&grid2=icebase")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		entry := entryOf(t, model)
		assert.Equal(t, "surface", entry["grid1"])
		assert.Equal(t, "icebase", entry["grid2"])
		// surface - icebase = 500 + x/1000, from 400 to 600.
		diffLimits := entry["diffLimits"].([]interface{})
		assert.InDelta(t, -600.0, diffLimits[0], 1e-9)
		assert.InDelta(t, 600.0, diffLimits[1], 1e-9)
		assert.Greater(t, entry["rmse"].(float64), 400.0)

		diff := entry["diff"].(map[string]interface{})
		assert.Equal(t, 21.0, diff["nx"])
		assert.InDelta(t, 400.0, diff["zmin"], 1e-9)
	})

	t.Run("within a region", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api,
			"/api/grid-compare.json?key=TEST&grid1=surface&grid2=icebase&region=0/50000/0/50000")
		require.Equal(t, http.StatusOK, model.Code)
		diff := entryOf(t, model)["diff"].(map[string]interface{})
		assert.Equal(t, 6.0, diff["nx"])
	})

	t.Run("identical grids", func(t *testing.T) {
		_, model := serveApiAndRetrieveEndpoint(t, api, "/api/grid-compare.json?key=TEST&grid1=bed&grid2=bed")
		assert.InDelta(t, 0.0, entryOf(t, model)["rmse"], 1e-12)
	})

	t.Run("region outside the grids", func(t *testing.T) {
		resp, _ := serveApiAndRetrieveEndpoint(t, api,
			"/api/grid-compare.json?key=TEST&grid1=bed&grid2=surface&region=500000/600000/500000/600000")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing grid name", func(t *testing.T) {
		resp, fieldErrors := serveForFieldErrors(t, api, http.MethodGet, "/api/grid-compare.json?key=TEST&grid1=bed", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors, "grid2")
	})
}
