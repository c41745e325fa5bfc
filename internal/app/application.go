package app

import (
	"log/slog"

	"polarprofile.org/internal/appconf"
	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/vertices"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config     appconf.Config
	Logger     *slog.Logger
	Catalog    *catalog.Manager
	Projection polar.Projection
	Collector  *vertices.Collector
}
