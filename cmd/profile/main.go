// Command profile samples gridded layers along a line and writes the
// resulting table as CSV, optionally drawing the cross-section.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"polarprofile.org/internal/figure"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/profile"
)

// layerFlags collects repeated name=path flags.
type layerFlags []layerFlag

type layerFlag struct {
	name, path string
}

func (l *layerFlags) String() string {
	parts := make([]string, len(*l))
	for i, f := range *l {
		parts[i] = f.name + "=" + f.path
	}
	return strings.Join(parts, ",")
}

func (l *layerFlags) Set(s string) error {
	name, path, ok := strings.Cut(s, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("want name=path, got %q", s)
	}
	*l = append(*l, layerFlag{name: name, path: path})
	return nil
}

// optionalFloat is a float flag that remembers whether it was set.
type optionalFloat struct{ v *float64 }

func (o *optionalFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}

func parsePoint(s string) (*orb.Point, error) {
	if s == "" {
		return nil, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, fmt.Errorf("point %q: %w", s, err)
	}
	return &orb.Point{x, y}, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var layers, data layerFlags
	var minDist, maxDist optionalFloat
	var (
		method       = fs.String("method", "points", "points, vertices-from-file or vertices-from-table")
		start        = fs.String("start", "", "start point x,y in EPSG:3031 meters")
		stop         = fs.String("stop", "", "stop point x,y in EPSG:3031 meters")
		num          = fs.Int("num", 0, "number of points (points method) or resample count (vertex methods)")
		verticesPath = fs.String("vertices", "", "vertex file: .shp, .geojson, .wkt or .csv")
		reverse      = fs.Bool("reverse", false, "reverse vertex order")
		interp       = fs.String("interp", "c", "grid interpolation: c (bicubic), l (bilinear) or n (nearest)")
		fill         = fs.Bool("fill", true, "fill layer gaps from the layer above")
		out          = fs.String("out", "-", "CSV output path, - for stdout")
		plotPath     = fs.String("plot", "", "cross-section figure path (.png, .svg or .pdf)")
		title        = fs.String("title", "", "figure title")
		logLevel     = fs.String("log-level", "warn", "log level")
	)
	fs.Var(&layers, "grid", "layer grid as name=path, repeatable, drawn top to bottom")
	fs.Var(&data, "data", "data grid as name=path, repeatable")
	fs.Var(&minDist, "min-dist", "drop points at or before this distance")
	fs.Var(&maxDist, "max-dist", "drop points at or beyond this distance")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(*logLevel))
	ctx = logging.WithLogger(ctx, logger)

	m, err := profile.ParseMethod(*method)
	if err != nil {
		return err
	}
	interpolation, err := grid.ParseInterpolation(*interp)
	if err != nil {
		return err
	}

	opts := profile.Options{Num: *num, File: *verticesPath, Reverse: *reverse}
	if opts.Start, err = parsePoint(*start); err != nil {
		return err
	}
	if opts.Stop, err = parsePoint(*stop); err != nil {
		return err
	}

	layerSpecs, err := loadSpecs(layers, interpolation)
	if err != nil {
		return err
	}
	dataSpecs, err := loadSpecs(data, interpolation)
	if err != nil {
		return err
	}

	figOpts := figure.DefaultOptions()
	figOpts.Title = *title
	req := figure.Request{
		Method:   m,
		Profile:  opts,
		Layers:   layerSpecs,
		Data:     dataSpecs,
		FillNaNs: *fill,
		Clip:     minDist.v != nil || maxDist.v != nil,
		MinDist:  minDist.v,
		MaxDist:  maxDist.v,
		Figure:   figOpts,
	}

	var res *figure.Result
	if *plotPath != "" {
		res, err = figure.PlotProfile(ctx, req)
	} else {
		res, err = figure.Sample(ctx, req)
	}
	if err != nil {
		return err
	}

	if *plotPath != "" {
		if err := writeFigure(*plotPath, res.Figure, logger); err != nil {
			return err
		}
	}

	w := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer logging.SafeCloseWithLogging(f, logger, "csv_output")
		w = f
	}
	if err := writeCSV(w, res.Layers); err != nil {
		return err
	}
	if res.Data != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return writeCSV(w, res.Data)
	}
	return nil
}

func loadSpecs(flags layerFlags, m grid.Interpolation) ([]profile.LayerSpec, error) {
	specs := make([]profile.LayerSpec, 0, len(flags))
	for _, f := range flags {
		g, err := grid.LoadASCII(f.path)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", f.name, err)
		}
		specs = append(specs, profile.LayerSpec{Name: f.name, Grid: g.WithInterpolation(m)})
	}
	return specs, nil
}

func writeFigure(path string, fig *figure.Figure, logger *slog.Logger) (err error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return errors.New("plot path needs an extension such as .png")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "figure_output")
	return figure.Render(f, fig, format)
}

// writeCSV writes the index column followed by the profile columns. NaN is
// written as an empty field.
func writeCSV(w io.Writer, p *profile.Profile) error {
	cw := csv.NewWriter(w)
	header := append([]string{"index"}, p.Columns()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < p.Len(); i++ {
		row[0] = strconv.Itoa(p.Index[i])
		row[1] = formatValue(p.X[i])
		row[2] = formatValue(p.Y[i])
		row[3] = formatValue(p.Dist[i])
		for j, l := range p.Layers {
			row[4+j] = formatValue(l.Values[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
