package models

import (
	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/profile"
	"polarprofile.org/internal/region"
	"polarprofile.org/internal/vertices"
)

type ProfilePoint struct {
	Index  int                 `json:"index"`
	X      float64             `json:"x"`
	Y      float64             `json:"y"`
	Dist   float64             `json:"dist"`
	Lon    float64             `json:"lon"`
	Lat    float64             `json:"lat"`
	Values map[string]*float64 `json:"values"`
}

type ProfileEntry struct {
	Columns []string       `json:"columns"`
	Length  float64        `json:"length"`
	Region  region.Region  `json:"region"`
	Points  []ProfilePoint `json:"points"`
	// Polyline is the path as an encoded lat/lon polyline.
	Polyline string `json:"polyline"`
}

// NewProfileEntry converts a profile table to its JSON form.
func NewProfileEntry(p *profile.Profile, proj polar.Projection) (ProfileEntry, error) {
	entry := ProfileEntry{
		Columns: p.Columns(),
		Points:  make([]ProfilePoint, p.Len()),
	}
	if p.Len() == 0 {
		return entry, nil
	}

	entry.Region = region.FromBound(profile.Region(p))
	entry.Length = p.Dist[p.Len()-1] - p.Dist[0]

	for i := range entry.Points {
		lon, lat, err := proj.ToLonLat(p.X[i], p.Y[i])
		if err != nil {
			return ProfileEntry{}, err
		}
		values := make(map[string]*float64, len(p.Layers))
		for _, l := range p.Layers {
			values[l.Name] = NullableFloat(l.Values[i])
		}
		entry.Points[i] = ProfilePoint{
			Index:  p.Index[i],
			X:      p.X[i],
			Y:      p.Y[i],
			Dist:   p.Dist[i],
			Lon:    lon,
			Lat:    lat,
			Values: values,
		}
	}

	encoded, err := vertices.EncodePolyline(p.Points(), proj)
	if err != nil {
		return ProfileEntry{}, err
	}
	entry.Polyline = encoded
	return entry, nil
}

// ProfileResponseData pairs the layers table with the optional data table.
type ProfileResponseData struct {
	Layers ProfileEntry  `json:"layers"`
	Data   *ProfileEntry `json:"data,omitempty"`
}
