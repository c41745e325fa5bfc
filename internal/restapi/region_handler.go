package restapi

import (
	"net/http"

	"polarprofile.org/internal/models"
	"polarprofile.org/internal/region"
	"polarprofile.org/internal/utils"
)

// regionHandler zooms, shifts and buffers a region and reports it in both
// projected and lat/lon form. The region is given either as
// region=xmin/xmax/ymin/ymax or as the four bounds separately.
func (api *RestAPI) regionHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	var reg region.Region
	if s := params.Get("region"); s != "" {
		var err error
		if reg, err = region.Parse(s); err != nil {
			fieldErrors["region"] = append(fieldErrors["region"], err.Error())
		}
	} else {
		for _, key := range []string{"xmin", "xmax", "ymin", "ymax"} {
			if params.Get(key) == "" {
				fieldErrors[key] = append(fieldErrors[key], "Missing required field "+key+".")
			}
		}
		reg.XMin, fieldErrors = utils.ParseFloatParam(params, "xmin", fieldErrors)
		reg.XMax, fieldErrors = utils.ParseFloatParam(params, "xmax", fieldErrors)
		reg.YMin, fieldErrors = utils.ParseFloatParam(params, "ymin", fieldErrors)
		reg.YMax, fieldErrors = utils.ParseFloatParam(params, "ymax", fieldErrors)
	}

	zoom, fieldErrors := utils.ParseFloatParam(params, "zoom", fieldErrors)
	nShift, fieldErrors := utils.ParseFloatParam(params, "n_shift", fieldErrors)
	wShift, fieldErrors := utils.ParseFloatParam(params, "w_shift", fieldErrors)
	buffer, fieldErrors := utils.ParseFloatParam(params, "buffer", fieldErrors)

	if len(fieldErrors) == 0 && (reg.Width() <= 0 || reg.Height() <= 0) {
		fieldErrors["region"] = append(fieldErrors["region"], "region must have xmin < xmax and ymin < ymax")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	altered, buffered := reg.Alter(zoom, nShift, wShift, buffer)
	if altered.Width() <= 0 || altered.Height() <= 0 {
		api.validationErrorResponse(w, r, map[string][]string{"zoom": {"zoom leaves an empty region"}})
		return
	}

	entry, err := models.NewRegionEntry(altered, buffered, api.Projection)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
