package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"

	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/figure"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/models"
	"polarprofile.org/internal/profile"
	"polarprofile.org/internal/utils"
	"polarprofile.org/internal/vertices"
)

// maxBodyBytes caps POSTed profile and draw requests.
const maxBodyBytes = 4 << 20

// profileQuery is the profile request shared by the query string and the
// POST body.
type profileQuery struct {
	Method   string       `json:"method"`
	Start    *orb.Point   `json:"start"`
	Stop     *orb.Point   `json:"stop"`
	Num      int          `json:"num"`
	Vertices [][2]float64 `json:"vertices"`
	Polyline string       `json:"polyline"`
	Reverse  bool         `json:"reverse"`
	Layers   []string     `json:"layers"`
	Data     []string     `json:"data"`
	Fill     *bool        `json:"fill"`
	MinDist  *float64     `json:"minDist"`
	MaxDist  *float64     `json:"maxDist"`
	Title    string       `json:"title"`
}

func parseProfileQuery(params url.Values) (profileQuery, map[string][]string) {
	var q profileQuery
	fieldErrors := make(map[string][]string)

	q.Method = params.Get("method")
	q.Start, fieldErrors = utils.ParsePointParam(params, "start", fieldErrors)
	q.Stop, fieldErrors = utils.ParsePointParam(params, "stop", fieldErrors)
	q.Num, fieldErrors = utils.ParseIntParam(params, "num", 0, fieldErrors)
	q.Polyline = params.Get("polyline")
	q.Reverse, fieldErrors = utils.ParseBoolParam(params, "reverse", false, fieldErrors)
	q.Layers = utils.ParseListParam(params, "layers")
	q.Data = utils.ParseListParam(params, "data")
	if params.Get("fill") != "" {
		var fill bool
		fill, fieldErrors = utils.ParseBoolParam(params, "fill", true, fieldErrors)
		q.Fill = &fill
	}
	q.MinDist, fieldErrors = utils.ParseOptionalFloatParam(params, "min_dist", fieldErrors)
	q.MaxDist, fieldErrors = utils.ParseOptionalFloatParam(params, "max_dist", fieldErrors)
	q.Title = params.Get("title")
	return q, fieldErrors
}

func decodeProfileBody(r *http.Request) (profileQuery, map[string][]string) {
	var q profileQuery
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return q, map[string][]string{"body": {err.Error()}}
	}
	return q, map[string][]string{}
}

// buildRequest resolves the method, vertices and catalogued layers of q.
// Problems with the caller's input come back as field errors.
func (api *RestAPI) buildRequest(ctx context.Context, q profileQuery) (figure.Request, map[string][]string, error) {
	fieldErrors := utils.ValidateProfileParams(q.Num, append(append([]string{}, q.Layers...), q.Data...), q.MinDist, q.MaxDist)

	var table orb.LineString
	switch {
	case q.Polyline != "":
		ls, err := vertices.DecodePolyline(q.Polyline, api.Projection)
		if err != nil {
			fieldErrors["polyline"] = append(fieldErrors["polyline"], err.Error())
		}
		table = ls
	case len(q.Vertices) > 0:
		for _, v := range q.Vertices {
			table = append(table, orb.Point(v))
		}
	}

	name := q.Method
	if name == "" {
		name = string(profile.MethodPoints)
		if len(table) > 0 {
			name = string(profile.MethodVerticesFromTable)
		}
	}
	method, err := profile.ParseMethod(name)
	switch {
	case err != nil:
		fieldErrors["method"] = append(fieldErrors["method"], err.Error())
	case method == profile.MethodVerticesFromFile:
		fieldErrors["method"] = append(fieldErrors["method"], "vertex files are not readable over HTTP, send vertices or polyline")
	}

	for _, p := range []*orb.Point{q.Start, q.Stop} {
		if p == nil {
			continue
		}
		if utils.ValidateCoordinate(p.X()) != nil || utils.ValidateCoordinate(p.Y()) != nil {
			fieldErrors["coordinates"] = append(fieldErrors["coordinates"], "coordinate must be finite")
		}
	}

	if len(fieldErrors) > 0 {
		return figure.Request{}, fieldErrors, nil
	}

	layers, err := api.Catalog.LayerSpecs(ctx, catalog.KindLayer, q.Layers)
	if err != nil {
		return figure.Request{}, nil, err
	}
	var data []profile.LayerSpec
	if len(q.Data) > 0 {
		if data, err = api.Catalog.LayerSpecs(ctx, catalog.KindData, q.Data); err != nil {
			return figure.Request{}, nil, err
		}
	}

	fill := true
	if q.Fill != nil {
		fill = *q.Fill
	}

	opts := figure.DefaultOptions()
	opts.Title = q.Title

	return figure.Request{
		Method: method,
		Profile: profile.Options{
			Start:   q.Start,
			Stop:    q.Stop,
			Num:     q.Num,
			Table:   table,
			Reverse: q.Reverse,
		},
		Layers:   layers,
		Data:     data,
		FillNaNs: fill,
		Clip:     q.MinDist != nil || q.MaxDist != nil,
		MinDist:  q.MinDist,
		MaxDist:  q.MaxDist,
		Figure:   opts,
	}, nil, nil
}

// references looks up the catalogue entries behind the sampled columns.
func (api *RestAPI) references(ctx context.Context, specs ...[]profile.LayerSpec) (models.ReferencesModel, error) {
	var layers []catalog.Layer
	for _, group := range specs {
		for _, s := range group {
			l, err := api.Catalog.Queries().GetLayer(ctx, s.Name)
			if err != nil {
				return models.ReferencesModel{}, err
			}
			layers = append(layers, l)
		}
	}
	return models.NewLayerReferences(layers), nil
}

func (api *RestAPI) profileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		q           profileQuery
		fieldErrors map[string][]string
	)
	if r.Method == http.MethodPost {
		q, fieldErrors = decodeProfileBody(r)
	} else {
		q, fieldErrors = parseProfileQuery(r.URL.Query())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	req, fieldErrors, err := api.buildRequest(ctx, q)
	if err != nil {
		api.handleError(w, r, err)
		return
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	res, err := figure.Sample(ctx, req)
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	layersEntry, err := models.NewProfileEntry(res.Layers, api.Projection)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	data := models.ProfileResponseData{Layers: layersEntry}
	if res.Data != nil {
		dataEntry, err := models.NewProfileEntry(res.Data, api.Projection)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		data.Data = &dataEntry
	}

	refs, err := api.references(ctx, req.Layers, req.Data)
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(data, refs))
}

func (api *RestAPI) profileFigureHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, fieldErrors := parseProfileQuery(r.URL.Query())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	req, fieldErrors, err := api.buildRequest(ctx, q)
	if err != nil {
		api.handleError(w, r, err)
		return
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	res, err := figure.PlotProfile(ctx, req)
	if err != nil {
		api.handleError(w, r, err)
		return
	}

	// Rendered into a buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := figure.Render(&buf, res.Figure, "png"); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.LogError(logging.FromContext(ctx), "failed to write figure", err)
	}
}
