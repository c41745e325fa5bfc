package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"polarprofile.org/internal/app"
	"polarprofile.org/internal/appconf"
	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/models"
	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/region"
	"polarprofile.org/internal/vertices"
)

var testRegion = region.Region{XMin: -100000, XMax: 100000, YMin: -100000, YMax: 100000}

// createTestApi creates a RestAPI backed by an in-memory catalog holding the
// default layers plus a "gravity" data layer. Grids are planes so sampled
// values are predictable: surface = 1000 + x/1000, icebase = 500,
// bed = -200 + y/1000 and gravity = x/2000.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	ctx := context.Background()

	client, err := catalog.NewClient(catalog.NewConfig(":memory:", "", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	manager := catalog.NewManager(client)
	require.NoError(t, manager.Seed(ctx))
	require.NoError(t, manager.Queries().CreateLayer(ctx, catalog.Layer{
		Name: "gravity", Path: "gravity.asc", Color: "red", Kind: catalog.KindData, Interpolation: "l", Position: 3,
	}))

	planes := map[string]func(x, y float64) float64{
		"surface.asc": func(x, y float64) float64 { return 1000 + x/1000 },
		"icebase.asc": func(x, y float64) float64 { return 500 },
		"bed.asc":     func(x, y float64) float64 { return -200 + y/1000 },
		"gravity.asc": func(x, y float64) float64 { return x / 2000 },
	}
	for path, f := range planes {
		g, err := grid.FromFunc(testRegion, 10000, grid.Gridline, f)
		require.NoError(t, err)
		manager.Put(path, g)
	}

	proj, err := polar.NewEPSG3031()
	require.NoError(t, err)

	application := &app.Application{
		Config: appconf.Config{
			Env:     appconf.EnvFlagToEnvironment("test"),
			ApiKeys: []string{"TEST"},
		},
		Logger:     slog.Default(),
		Catalog:    manager,
		Projection: proj,
		Collector:  vertices.NewCollector(nil),
	}

	return &RestAPI{Application: application}
}

// serveApiAndRetrieveEndpoint sets up a test server, makes a GET request to
// the specified endpoint, and returns the response and decoded model.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	return serveApiRequest(t, api, http.MethodGet, endpoint, nil)
}

func serveApiRequest(t *testing.T, api *RestAPI, method, endpoint string, body []byte) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp, raw := doRequest(t, api, method, endpoint, body)

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(raw, &response), string(raw))
	return resp, response
}

// serveForFieldErrors expects a 400 validation response and returns its fieldErrors.
func serveForFieldErrors(t *testing.T, api *RestAPI, method, endpoint string, body []byte) (*http.Response, map[string][]string) {
	t.Helper()
	resp, raw := doRequest(t, api, method, endpoint, body)

	var response struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(raw, &response), string(raw))
	return resp, response.FieldErrors
}

func doRequest(t *testing.T, api *RestAPI, method, endpoint string, body []byte) (*http.Response, []byte) {
	t.Helper()
	router := newRouter()
	api.SetRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// entryOf digs data.entry out of a decoded response.
func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "list should be an array")
	return list
}
