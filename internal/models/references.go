package models

import "polarprofile.org/internal/catalog"

// ReferencesModel lists the catalogued layers an entry was built from.
type ReferencesModel struct {
	Layers []LayerEntry `json:"layers"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{Layers: []LayerEntry{}}
}

// NewLayerReferences references each of the given layers.
func NewLayerReferences(layers []catalog.Layer) ReferencesModel {
	refs := NewEmptyReferences()
	for _, l := range layers {
		refs.Layers = append(refs.Layers, NewLayerEntry(l))
	}
	return refs
}
