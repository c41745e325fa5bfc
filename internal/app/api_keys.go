package app

import "net/http"

// APIKeyHeader carries the key for clients that would rather keep it out of
// the URL, such as the drawing tool posting GeoJSON.
const APIKeyHeader = "X-Api-Key"

// RequestAPIKey returns the "key" query parameter, or the X-Api-Key header
// when the parameter is absent.
func RequestAPIKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return !app.Config.HasAPIKey(RequestAPIKey(r))
}
