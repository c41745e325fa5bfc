package restapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/paulmach/orb/geojson"

	"polarprofile.org/internal/models"
	"polarprofile.org/internal/vertices"
)

// drawHandler receives a GeoJSON feature drawn on a map client. The action
// query parameter mirrors the draw control's event name and defaults to
// "created".
func (api *RestAPI) drawHandler(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		action = "created"
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	f, err := geojson.UnmarshalFeature(body)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"body": {err.Error()}})
		return
	}

	if err := api.Collector.OnDraw(action, f); err != nil {
		if errors.Is(err, vertices.ErrNoLine) {
			api.validationErrorResponse(w, r, map[string][]string{"geometry": {err.Error()}})
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(
		map[string]int{"lines": len(api.Collector.Lines())},
		models.NewEmptyReferences()))
}

// linesHandler lists every collected vertex with its projected coordinates.
func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	points, err := vertices.ShapesToPoints(api.Collector.Lines(), api.Projection)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if points == nil {
		points = []vertices.ShapePoint{}
	}
	api.sendResponse(w, r, models.NewListResponse(points, models.NewEmptyReferences()))
}

func (api *RestAPI) clearLinesHandler(w http.ResponseWriter, r *http.Request) {
	api.Collector.Clear()
	api.sendResponse(w, r, models.NewOKResponse(nil))
}
