package profile

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"polarprofile.org/internal/logging"
)

// Sampler evaluates a grid at arbitrary points. Points outside the grid or
// on missing data yield NaN; a row is never skipped.
type Sampler interface {
	Sample(xs, ys []float64) ([]float64, error)
}

// SampleGrid returns a copy of p with a column called name holding the grid
// values at each row. An existing column with that name is replaced, and the
// new column is always last. p itself is never handed to the sampler.
func SampleGrid(ctx context.Context, p *Profile, s Sampler, name string) (*Profile, error) {
	out := p.Clone()
	vals, err := s.Sample(out.X, out.Y)
	if err != nil {
		return nil, fmt.Errorf("sampling %s: %w", name, err)
	}
	if len(vals) != p.Len() {
		return nil, fmt.Errorf("sampling %s: got %d values for %d points", name, len(vals), p.Len())
	}

	kept := out.Layers[:0]
	for _, l := range out.Layers {
		if l.Name != name {
			kept = append(kept, l)
		}
	}
	out.Layers = append(kept, Column{Name: name, Values: vals})

	if err := unchangedExcept(p, out, name); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("grid sampled",
		slog.String("layer", name),
		slog.Int("points", out.Len()))
	return out, nil
}

// SampleGrids samples each layer in order.
func SampleGrids(ctx context.Context, p *Profile, layers []LayerSpec) (*Profile, error) {
	var err error
	for _, l := range layers {
		if p, err = SampleGrid(ctx, p, l.Grid, l.Name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// unchangedExcept checks that every column of after other than name matches
// before bit for bit.
func unchangedExcept(before, after *Profile, name string) error {
	if !equalInts(before.Index, after.Index) {
		return fmt.Errorf("%w: index", ErrProfileAltered)
	}
	for _, c := range []struct {
		name string
		a, b []float64
	}{{"x", before.X, after.X}, {"y", before.Y, after.Y}, {"dist", before.Dist, after.Dist}} {
		if !equalBits(c.a, c.b) {
			return fmt.Errorf("%w: %s", ErrProfileAltered, c.name)
		}
	}

	var prev []Column
	for _, l := range before.Layers {
		if l.Name != name {
			prev = append(prev, l)
		}
	}
	rest := after.Layers[:len(after.Layers)-1]
	if len(prev) != len(rest) {
		return fmt.Errorf("%w: layer count", ErrProfileAltered)
	}
	for i := range prev {
		if prev[i].Name != rest[i].Name || !equalBits(prev[i].Values, rest[i].Values) {
			return fmt.Errorf("%w: layer %s", ErrProfileAltered, prev[i].Name)
		}
	}
	return nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalBits(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}
