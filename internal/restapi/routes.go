package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func newRouter() *httprouter.Router {
	router := httprouter.New()
	// OPTIONS preflights are answered by the security middleware.
	router.HandleOPTIONS = false
	return router
}

// SetRoutes registers the API. Route parameters are read back with
// utils.ExtractIDFromParams.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.NotFound = http.HandlerFunc(api.sendNotFound)

	router.Handler(http.MethodGet, "/api/profile.json", validateAPIKey(api, api.profileHandler))
	router.Handler(http.MethodPost, "/api/profile.json", validateAPIKey(api, api.profileHandler))
	router.Handler(http.MethodGet, "/api/profile.png", validateAPIKey(api, api.profileFigureHandler))
	router.Handler(http.MethodGet, "/api/layers.json", validateAPIKey(api, api.layersHandler))
	router.Handler(http.MethodGet, "/api/layer/:id", validateAPIKey(api, api.layerHandler))
	router.Handler(http.MethodGet, "/api/grid-info/:id", validateAPIKey(api, api.gridInfoHandler))
	router.Handler(http.MethodGet, "/api/grid-compare.json", validateAPIKey(api, api.gridCompareHandler))
	router.Handler(http.MethodGet, "/api/region.json", validateAPIKey(api, api.regionHandler))
	router.Handler(http.MethodPost, "/api/draw", validateAPIKey(api, api.drawHandler))
	router.Handler(http.MethodGet, "/api/lines.json", validateAPIKey(api, api.linesHandler))
	router.Handler(http.MethodDelete, "/api/lines.json", validateAPIKey(api, api.clearLinesHandler))
}
