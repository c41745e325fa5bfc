package restapi

import (
	"net/http"
	"time"

	"polarprofile.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Handler returns the routed API wrapped in the middleware chain:
// security headers, request logging, rate limiting, then compression.
func (api *RestAPI) Handler() http.Handler {
	router := newRouter()
	api.SetRoutes(router)

	var h http.Handler = router
	h = CompressionMiddleware(h)
	if api.rateLimiter != nil {
		h = api.rateLimiter(h)
	}
	h = NewRequestLoggingMiddleware(api.Logger)(h)
	return api.WithSecurityHeaders(h)
}
