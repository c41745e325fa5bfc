package models

import (
	"math"

	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/region"
)

type LayerEntry struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	Color         string `json:"color"`
	Axis          int    `json:"axis"`
	Kind          string `json:"kind"`
	Interpolation string `json:"interpolation"`
}

func NewLayerEntry(l catalog.Layer) LayerEntry {
	return LayerEntry{
		ID:            l.Name,
		Path:          l.Path,
		Color:         l.Color,
		Axis:          l.Axis,
		Kind:          l.Kind,
		Interpolation: l.Interpolation,
	}
}

// GridInfoEntry describes a grid; zmin and zmax are null for an all-NaN grid.
type GridInfoEntry struct {
	LayerID      string        `json:"layerId"`
	Spacing      float64       `json:"spacing"`
	Region       region.Region `json:"region"`
	NX           int           `json:"nx"`
	NY           int           `json:"ny"`
	ZMin         *float64      `json:"zmin"`
	ZMax         *float64      `json:"zmax"`
	Registration string        `json:"registration"`
}

func NewGridInfoEntry(layerID string, g *grid.Grid) GridInfoEntry {
	info := g.Info()
	return GridInfoEntry{
		LayerID:      layerID,
		Spacing:      info.Spacing,
		Region:       info.Region,
		NX:           g.NX,
		NY:           g.NY,
		ZMin:         NullableFloat(info.ZMin),
		ZMax:         NullableFloat(info.ZMax),
		Registration: info.Registration,
	}
}

// NullableFloat maps NaN to nil, since JSON has no NaN.
func NullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// GridComparisonEntry summarises grid1 - grid2 on their common lattice.
type GridComparisonEntry struct {
	Grid1      string        `json:"grid1"`
	Grid2      string        `json:"grid2"`
	RMSE       *float64      `json:"rmse"`
	Limits     [2]*float64   `json:"limits"`
	DiffLimits [2]*float64   `json:"diffLimits"`
	Diff       GridInfoEntry `json:"diff"`
}

func NewGridComparisonEntry(name1, name2 string, c *grid.Comparison) GridComparisonEntry {
	return GridComparisonEntry{
		Grid1:      name1,
		Grid2:      name2,
		RMSE:       NullableFloat(c.RMSE),
		Limits:     [2]*float64{NullableFloat(c.Limits[0]), NullableFloat(c.Limits[1])},
		DiffLimits: [2]*float64{NullableFloat(c.DiffLimits[0]), NullableFloat(c.DiffLimits[1])},
		Diff:       NewGridInfoEntry(name1+"-"+name2, c.Diff),
	}
}
