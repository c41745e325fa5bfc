package profile

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/interp"

	"polarprofile.org/internal/logging"
)

// minSplinePoints is the fewest rows a not-a-knot cubic spline can fit.
const minSplinePoints = 4

// Resample re-parameterises p onto num evenly spaced distances spanning its
// dist range, interpolating every other column against dist with a cubic
// spline. When the spline cannot be fitted the input is returned unchanged
// and the problem is logged.
func Resample(ctx context.Context, p *Profile, num int) *Profile {
	out, err := resample(p, num)
	if err != nil {
		logging.FromContext(ctx).Info("resampling skipped, returning unsampled points",
			slog.Int("points", p.Len()),
			slog.Int("num", num),
			slog.String("reason", err.Error()))
		return p
	}
	return out
}

func resample(p *Profile, num int) (out *Profile, err error) {
	if num < 1 {
		return nil, fmt.Errorf("num must be positive, got %d", num)
	}
	if p.Len() < minSplinePoints {
		return nil, fmt.Errorf("need at least %d points, got %d", minSplinePoints, p.Len())
	}
	for i := 1; i < p.Len(); i++ {
		if !(p.Dist[i] > p.Dist[i-1]) {
			return nil, fmt.Errorf("dist is not strictly increasing at row %d", i)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("spline: %v", r)
		}
	}()

	dist := linspace(p.Dist[0], p.Dist[p.Len()-1], num)
	out = &Profile{Index: sequence(num), Dist: dist}

	if out.X, err = spline(p.Dist, p.X, dist); err != nil {
		return nil, err
	}
	if out.Y, err = spline(p.Dist, p.Y, dist); err != nil {
		return nil, err
	}
	for _, l := range p.Layers {
		vs, err := spline(p.Dist, l.Values, dist)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.Name, err)
		}
		out.Layers = append(out.Layers, Column{Name: l.Name, Values: vs})
	}
	return out, nil
}

func spline(xs, ys, at []float64) ([]float64, error) {
	var s interp.NotAKnotCubic
	if err := s.Fit(xs, ys); err != nil {
		return nil, err
	}
	out := make([]float64, len(at))
	for i, x := range at {
		out[i] = s.Predict(x)
	}
	return out, nil
}
