// Package figure draws profile cross-sections.
package figure

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"polarprofile.org/internal/profile"
)

var ErrNothingToPlot = errors.New("figure: no layers or data to plot")

// Options controls the cross-section layout. Sizes are in centimetres.
type Options struct {
	Title       string
	Width       float64
	Height      float64
	DataHeight  float64
	LayerBuffer float64 // fraction of the layer range added above and below
	DataBuffer  float64
	FillLayers  bool
	StartLabel  string
	EndLabel    string
	// Colors maps column names to colours; unnamed columns cycle the palette.
	Colors map[string]string
}

func DefaultOptions() Options {
	return Options{
		Width:       14,
		Height:      9,
		DataHeight:  2.5,
		LayerBuffer: 0.1,
		DataBuffer:  0.1,
		FillLayers:  true,
		StartLabel:  "A",
		EndLabel:    "B",
	}
}

// Figure is a column of panels sharing the distance axis, top first.
type Figure struct {
	Panels []*plot.Plot
	Width  vg.Length
	Height vg.Length
}

// CrossSection builds the layers panel and, when data is given, a data
// panel stacked above it. Distances are shown in kilometres.
func CrossSection(layers, data *profile.Profile, opts Options) (*Figure, error) {
	hasLayers := layers != nil && len(layers.Layers) > 0
	hasData := data != nil && len(data.Layers) > 0
	if !hasLayers && !hasData {
		return nil, ErrNothingToPlot
	}

	fig := &Figure{Width: vg.Length(opts.Width) * vg.Centimeter}
	height := opts.Height

	if hasData {
		p, err := dataPanel(data, opts)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, p)
		if hasLayers {
			height += opts.DataHeight
		}
	}
	if hasLayers {
		p, err := layersPanel(layers, opts)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, p)
	}
	fig.Panels[0].Title.Text = opts.Title
	fig.Height = vg.Length(height) * vg.Centimeter
	return fig, nil
}

func layersPanel(prof *profile.Profile, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Distance (km)"
	p.Y.Label.Text = "Elevation (m)"
	p.Legend.Top = false
	p.Legend.Left = false

	lo, hi := columnRange(prof.Layers)
	lo, hi = pad(lo, hi, opts.LayerBuffer)
	p.Y.Min, p.Y.Max = lo, hi

	dist := kilometres(prof.Dist)
	for i, col := range prof.Layers {
		c, err := colorFor(col.Name, i, opts.Colors)
		if err != nil {
			return nil, err
		}
		for _, run := range finiteRuns(dist, col.Values) {
			if opts.FillLayers && len(run) > 1 {
				// close the layer down to the bottom of the panel
				ring := append(append(plotter.XYs{}, run...),
					plotter.XY{X: run[len(run)-1].X, Y: lo},
					plotter.XY{X: run[0].X, Y: lo})
				poly, err := plotter.NewPolygon(ring)
				if err != nil {
					return nil, fmt.Errorf("layer %s: %w", col.Name, err)
				}
				poly.Color = c
				poly.LineStyle.Width = 0
				p.Add(poly)
			}
			line, err := plotter.NewLine(run)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", col.Name, err)
			}
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Color = c
			if opts.FillLayers {
				line.LineStyle.Color = color.Black
				line.LineStyle.Width = vg.Points(0.5)
			}
			p.Add(line)
		}
		thumb, _ := plotter.NewPolygon(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
		thumb.Color = c
		p.Legend.Add(col.Name, thumb)
	}

	if err := addEndLabels(p, dist, hi, opts); err != nil {
		return nil, err
	}
	return p, nil
}

func dataPanel(prof *profile.Profile, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Distance (km)"

	lo, hi := columnRange(prof.Layers)
	lo, hi = pad(lo, hi, opts.DataBuffer)
	p.Y.Min, p.Y.Max = lo, hi

	dist := kilometres(prof.Dist)
	for i, col := range prof.Layers {
		c, err := colorFor(col.Name, i, opts.Colors)
		if err != nil {
			return nil, err
		}
		var legendLine *plotter.Line
		for _, run := range finiteRuns(dist, col.Values) {
			line, err := plotter.NewLine(run)
			if err != nil {
				return nil, fmt.Errorf("data %s: %w", col.Name, err)
			}
			line.LineStyle.Width = vg.Points(1)
			line.LineStyle.Color = c
			p.Add(line)
			legendLine = line
		}
		if legendLine != nil {
			p.Legend.Add(col.Name, legendLine)
		}
	}
	return p, nil
}

func addEndLabels(p *plot.Plot, dist []float64, top float64, opts Options) error {
	if len(dist) == 0 || (opts.StartLabel == "" && opts.EndLabel == "") {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: dist[0], Y: top}, {X: dist[len(dist)-1], Y: top}},
		Labels: []string{opts.StartLabel, opts.EndLabel},
	})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

var palette = []string{"black", "red", "blue", "green", "orange", "purple"}

func colorFor(name string, i int, colors map[string]string) (color.Color, error) {
	if s, ok := colors[name]; ok {
		return ParseColor(s)
	}
	return ParseColor(palette[i%len(palette)])
}

// finiteRuns splits a column into runs without NaN, since plotters reject
// non-finite points.
func finiteRuns(xs, ys []float64) []plotter.XYs {
	var (
		runs []plotter.XYs
		cur  plotter.XYs
	)
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func kilometres(dist []float64) []float64 {
	out := make([]float64, len(dist))
	for i, d := range dist {
		out[i] = d / 1000
	}
	return out
}

func columnRange(cols []profile.Column) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range cols {
		for _, v := range c.Values {
			if math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

func pad(lo, hi, frac float64) (float64, float64) {
	buf := (hi - lo) * frac
	if buf == 0 {
		buf = 1
	}
	return lo - buf, hi + buf
}

// Render writes the figure in the given format (png, svg, pdf, jpg, eps, tif).
func Render(w io.Writer, fig *Figure, format string) error {
	c, err := draw.NewFormattedCanvas(fig.Width, fig.Height, format)
	if err != nil {
		return err
	}

	rows := make([][]*plot.Plot, len(fig.Panels))
	for i, p := range fig.Panels {
		rows[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{
		Rows: len(rows),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: 3 * vg.Millimeter,
	}
	canvases := plot.Align(rows, tiles, draw.New(c))
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	_, err = c.WriteTo(w)
	return err
}
