package restapi

import (
	"net/http"

	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/models"
	"polarprofile.org/internal/region"
	"polarprofile.org/internal/utils"
)

func (api *RestAPI) layersHandler(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != catalog.KindLayer && kind != catalog.KindData {
		api.validationErrorResponse(w, r, map[string][]string{
			"kind": {"kind must be layer or data"},
		})
		return
	}

	layers, err := api.Catalog.Queries().ListLayers(r.Context(), kind)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]models.LayerEntry, 0, len(layers))
	for _, l := range layers {
		entries = append(entries, models.NewLayerEntry(l))
	}
	api.sendResponse(w, r, models.NewListResponse(entries, models.NewEmptyReferences()))
}

func (api *RestAPI) layerHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	layer, err := api.Catalog.Queries().GetLayer(r.Context(), id)
	if err != nil {
		api.handleError(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(models.NewLayerEntry(layer), models.NewEmptyReferences()))
}

func (api *RestAPI) gridInfoHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	g, layer, err := api.Catalog.Grid(r.Context(), id)
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	entry := models.NewGridInfoEntry(layer.Name, g)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewLayerReferences([]catalog.Layer{layer})))
}

// gridCompareHandler differences two catalogued grids, optionally within
// region=xmin/xmax/ymin/ymax.
func (api *RestAPI) gridCompareHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	names := []string{params.Get("grid1"), params.Get("grid2")}
	for i, key := range []string{"grid1", "grid2"} {
		if err := utils.ValidateID(names[i]); err != nil {
			fieldErrors[key] = append(fieldErrors[key], err.Error())
		}
	}
	robust, fieldErrors := utils.ParseBoolParam(params, "robust", false, fieldErrors)

	var opts grid.CompareOptions
	opts.Robust = robust
	if s := params.Get("region"); s != "" {
		reg, err := region.Parse(s)
		if err != nil {
			fieldErrors["region"] = append(fieldErrors["region"], err.Error())
		}
		opts.Region = &reg
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	g1, l1, err := api.Catalog.Grid(ctx, names[0])
	if err != nil {
		api.handleError(w, r, err)
		return
	}
	g2, l2, err := api.Catalog.Grid(ctx, names[1])
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	cmp, err := grid.Compare(g1, g2, opts)
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	entry := models.NewGridComparisonEntry(l1.Name, l2.Name, cmp)
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewLayerReferences([]catalog.Layer{l1, l2})))
}
