package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"

	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/vertices"
)

// Method selects how profile points are generated.
type Method string

const (
	MethodPoints            Method = "points"
	MethodVerticesFromFile  Method = "vertices-from-file"
	MethodVerticesFromTable Method = "vertices-from-table"
)

// DefaultNum is the number of points sampled along a straight line when no
// count is given.
const DefaultNum = 1000

// ParseMethod accepts the method names plus the "shapefile" and "polyline"
// aliases.
func ParseMethod(s string) (Method, error) {
	switch s {
	case string(MethodPoints):
		return MethodPoints, nil
	case string(MethodVerticesFromFile), "shapefile":
		return MethodVerticesFromFile, nil
	case string(MethodVerticesFromTable), "polyline":
		return MethodVerticesFromTable, nil
	}
	return "", fmt.Errorf("%w: unknown method %q, want points, vertices-from-file or vertices-from-table", ErrInvalidConfig, s)
}

// Options configures Create. Start and Stop are used by MethodPoints, File by
// MethodVerticesFromFile and Table by MethodVerticesFromTable. Num is the
// point count for MethodPoints (default DefaultNum) and an optional resample
// count for the vertex methods.
type Options struct {
	Start   *orb.Point
	Stop    *orb.Point
	Num     int
	File    string
	Table   orb.LineString
	Reverse bool
}

// Create builds a profile with x, y and dist columns, sorted by dist.
func Create(ctx context.Context, method Method, opts Options) (*Profile, error) {
	if opts.Num < 0 {
		return nil, fmt.Errorf("%w: num must be positive, got %d", ErrInvalidConfig, opts.Num)
	}

	method, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}

	var p *Profile
	switch method {
	case MethodPoints:
		p, err = fromEndpoints(opts)
	case MethodVerticesFromFile:
		if opts.File == "" {
			return nil, fmt.Errorf("%w: method %s needs a vertex file", ErrInvalidConfig, method)
		}
		var ls orb.LineString
		if ls, err = vertices.ReadFile(opts.File); err == nil {
			p = fromVertices(ls, opts.Reverse)
		}
	case MethodVerticesFromTable:
		if len(opts.Table) == 0 {
			return nil, fmt.Errorf("%w: method %s needs a vertex table", ErrInvalidConfig, method)
		}
		p = fromVertices(opts.Table, opts.Reverse)
	}
	if err != nil {
		return nil, err
	}

	sortByDist(p)

	if method != MethodPoints && opts.Num > 0 {
		p = Resample(ctx, p, opts.Num)
	}

	logging.FromContext(ctx).Debug("profile created",
		slog.String("method", string(method)),
		slog.Int("points", p.Len()))
	return p, nil
}

func fromEndpoints(opts Options) (*Profile, error) {
	switch {
	case opts.Start == nil && opts.Stop == nil:
		return nil, fmt.Errorf("%w: method points needs start and stop", ErrInvalidConfig)
	case opts.Start == nil:
		return nil, fmt.Errorf("%w: method points needs start", ErrInvalidConfig)
	case opts.Stop == nil:
		return nil, fmt.Errorf("%w: method points needs stop", ErrInvalidConfig)
	}

	num := opts.Num
	if num == 0 {
		num = DefaultNum
	}
	xs := linspace(opts.Start.X(), opts.Stop.X(), num)
	ys := linspace(opts.Start.Y(), opts.Stop.Y(), num)

	return &Profile{
		Index: sequence(num),
		X:     xs,
		Y:     ys,
		Dist:  distFromFirst(xs, ys),
	}, nil
}

func fromVertices(ls orb.LineString, reverse bool) *Profile {
	n := len(ls)
	xs, ys := make([]float64, n), make([]float64, n)
	for i, pt := range ls {
		j := i
		if reverse {
			j = n - 1 - i
		}
		xs[j], ys[j] = pt.X(), pt.Y()
	}
	return &Profile{
		Index: sequence(n),
		X:     xs,
		Y:     ys,
		Dist:  cumulativeDist(xs, ys),
	}
}

// sortByDist stably reorders rows by ascending dist and relabels the index.
func sortByDist(p *Profile) {
	order := sequence(p.Len())
	sort.SliceStable(order, func(a, b int) bool { return p.Dist[order[a]] < p.Dist[order[b]] })

	p.X = permute(p.X, order)
	p.Y = permute(p.Y, order)
	p.Dist = permute(p.Dist, order)
	for i := range p.Layers {
		p.Layers[i].Values = permute(p.Layers[i].Values, order)
	}
	p.Index = sequence(p.Len())
}

func permute(vs []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, k := range order {
		out[i] = vs[k]
	}
	return out
}

// linspace returns n evenly spaced values from lo to hi inclusive, with the
// endpoints exact.
func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	vs := floats.Span(make([]float64, n), lo, hi)
	vs[n-1] = hi
	return vs
}
