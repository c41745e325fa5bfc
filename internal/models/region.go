package models

import (
	"github.com/paulmach/orb"

	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/region"
)

type RegionEntry struct {
	Region      region.Region `json:"region"`
	Buffered    region.Region `json:"buffered"`
	GMT         string        `json:"gmt"`
	BoundingBox [4]float64    `json:"boundingBox"`
	Corners     []orb.Point   `json:"corners"`
	LatLon      region.Region `json:"latLon"`
	LatLonDMS   [4]string     `json:"latLonDms"`
}

func NewRegionEntry(r, buffered region.Region, proj polar.Projection) (RegionEntry, error) {
	ll, err := region.ToLatLon(r, proj)
	if err != nil {
		return RegionEntry{}, err
	}
	dms, err := region.ToLatLonDMS(r, proj)
	if err != nil {
		return RegionEntry{}, err
	}
	return RegionEntry{
		Region:      r,
		Buffered:    buffered,
		GMT:         r.String(),
		BoundingBox: r.BoundingBox(),
		Corners:     r.Corners(),
		LatLon:      ll,
		LatLonDMS:   dms,
	}, nil
}
