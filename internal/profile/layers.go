package profile

import "fmt"

// LayerSpec describes one grid to sample and how to draw it.
type LayerSpec struct {
	Name  string
	Grid  Sampler
	Color string
	// Axis is the y axis the layer is drawn against, for data panels.
	Axis int
}

// MakeDataDict zips parallel name, grid, colour and axis lists into layer
// specs. A nil axes slice puts every layer on axis 0.
func MakeDataDict(names []string, grids []Sampler, colors []string, axes []int) ([]LayerSpec, error) {
	if len(grids) != len(names) || len(colors) != len(names) {
		return nil, fmt.Errorf("%w: %d names, %d grids and %d colors", ErrInvalidConfig, len(names), len(grids), len(colors))
	}
	if axes != nil && len(axes) != len(names) {
		return nil, fmt.Errorf("%w: %d names but %d axes", ErrInvalidConfig, len(names), len(axes))
	}

	specs := make([]LayerSpec, len(names))
	for i, name := range names {
		specs[i] = LayerSpec{Name: name, Grid: grids[i], Color: colors[i]}
		if axes != nil {
			specs[i].Axis = axes[i]
		}
	}
	return specs, nil
}
