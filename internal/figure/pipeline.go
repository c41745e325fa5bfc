package figure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/profile"
)

// Request describes a full cross-section run.
type Request struct {
	Method  profile.Method
	Profile profile.Options
	Layers  []profile.LayerSpec
	Data    []profile.LayerSpec
	// FillNaNs fills gaps in each layer from the layer above.
	FillNaNs bool
	// Clip shortens the profile to MinDist/MaxDist; at least one is required.
	Clip    bool
	MinDist *float64
	MaxDist *float64
	Figure  Options
}

// Result holds the sampled tables and, when requested, the figure.
type Result struct {
	Layers *profile.Profile
	Data   *profile.Profile
	Figure *Figure
}

// Sample builds the profile and samples layers and data without drawing.
func Sample(ctx context.Context, req Request) (*Result, error) {
	if req.Clip && req.MinDist == nil && req.MaxDist == nil {
		return nil, fmt.Errorf("%w: clip needs max_dist or min_dist", profile.ErrInvalidConfig)
	}
	start := time.Now()

	points, err := profile.Create(ctx, req.Method, req.Profile)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if len(req.Layers) > 0 {
		if res.Layers, err = profile.SampleGrids(ctx, points, req.Layers); err != nil {
			return nil, err
		}
		if req.FillNaNs {
			res.Layers = profile.FillNaNs(res.Layers)
		}
	} else {
		res.Layers = points
	}

	if len(req.Data) > 0 {
		if res.Data, err = profile.SampleGrids(ctx, points, req.Data); err != nil {
			return nil, err
		}
	}

	if req.Clip {
		if res.Layers, err = profile.Shorten(res.Layers, req.MaxDist, req.MinDist); err != nil {
			return nil, err
		}
		if res.Data != nil {
			if res.Data, err = profile.Shorten(res.Data, req.MaxDist, req.MinDist); err != nil {
				return nil, err
			}
		}
	}

	logging.LogOperation(logging.FromContext(ctx), "profile_sampled",
		slog.String("method", string(req.Method)),
		slog.Int("points", res.Layers.Len()),
		slog.Int("layers", len(req.Layers)),
		slog.Int("data", len(req.Data)),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

// PlotProfile samples the profile and draws it.
func PlotProfile(ctx context.Context, req Request) (*Result, error) {
	res, err := Sample(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := req.Figure
	if opts.Colors == nil {
		opts.Colors = map[string]string{}
	}
	for _, l := range append(append([]profile.LayerSpec{}, req.Layers...), req.Data...) {
		if _, ok := opts.Colors[l.Name]; !ok && l.Color != "" {
			opts.Colors[l.Name] = l.Color
		}
	}

	if res.Figure, err = CrossSection(res.Layers, res.Data, opts); err != nil {
		return nil, err
	}
	return res, nil
}
