package profile

import "math"

// FillNaNs fills missing values in each layer from the layer before it,
// working from the first layer down. The first layer is left as is.
func FillNaNs(p *Profile) *Profile {
	out := p.Clone()
	for i := 1; i < len(out.Layers); i++ {
		above, cur := out.Layers[i-1].Values, out.Layers[i].Values
		for j, v := range cur {
			if math.IsNaN(v) {
				cur[j] = above[j]
			}
		}
	}
	return out
}
