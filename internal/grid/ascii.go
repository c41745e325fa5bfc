package grid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"polarprofile.org/internal/region"
)

const defaultNoData = -9999

// LoadASCII reads an ESRI ASCII grid from path.
func LoadASCII(path string) (g *Grid, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	g, err = ReadASCII(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return g, nil
}

// ReadASCII parses an ESRI ASCII grid. A corner origin (xllcorner) yields a
// pixel-registered grid, a centre origin (xllcenter) a gridline one.
func ReadASCII(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	scanner.Split(bufio.ScanWords)

	header := map[string]float64{}
	var first string
	for scanner.Scan() {
		key := strings.ToLower(scanner.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key
			break
		}
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: header %q has no value", ErrMalformedGrid, key)
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: header %q: %v", ErrMalformedGrid, key, err)
		}
		header[key] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	ncols, okc := header["ncols"]
	nrows, okr := header["nrows"]
	cellsize, oks := header["cellsize"]
	if !okc || !okr || !oks || ncols < 1 || nrows < 1 || cellsize <= 0 {
		return nil, fmt.Errorf("%w: ncols, nrows and cellsize are required", ErrMalformedGrid)
	}
	nx, ny := int(ncols), int(nrows)

	g := &Grid{Spacing: cellsize, NX: nx, NY: ny}
	if xc, ok := header["xllcorner"]; ok {
		yc, ok := header["yllcorner"]
		if !ok {
			return nil, fmt.Errorf("%w: xllcorner without yllcorner", ErrMalformedGrid)
		}
		g.Registration = Pixel
		g.Region = region.Region{
			XMin: xc, XMax: xc + float64(nx)*cellsize,
			YMin: yc, YMax: yc + float64(ny)*cellsize,
		}
	} else if xc, ok := header["xllcenter"]; ok {
		yc, ok := header["yllcenter"]
		if !ok {
			return nil, fmt.Errorf("%w: xllcenter without yllcenter", ErrMalformedGrid)
		}
		g.Registration = Gridline
		g.Region = region.Region{
			XMin: xc, XMax: xc + float64(nx-1)*cellsize,
			YMin: yc, YMax: yc + float64(ny-1)*cellsize,
		}
	} else {
		return nil, fmt.Errorf("%w: missing grid origin", ErrMalformedGrid)
	}

	noData, hasNoData := header["nodata_value"]

	g.Data = make([]float64, nx*ny)
	n := 0
	parse := func(tok string) error {
		if n >= nx*ny {
			return fmt.Errorf("%w: more than %d values", ErrMalformedGrid, nx*ny)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("%w: value %d: %v", ErrMalformedGrid, n, err)
		}
		if hasNoData && v == noData {
			v = math.NaN()
		}
		// file rows run north to south
		row, col := n/nx, n%nx
		g.Data[(ny-1-row)*nx+col] = v
		n++
		return nil
	}

	if first != "" {
		if err := parse(first); err != nil {
			return nil, err
		}
	}
	for scanner.Scan() {
		if err := parse(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if n != nx*ny {
		return nil, fmt.Errorf("%w: expected %d values, read %d", ErrMalformedGrid, nx*ny, n)
	}
	return g, nil
}

// WriteASCII writes g as an ESRI ASCII grid; NaN becomes -9999.
func (g *Grid) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)

	origin := "corner"
	if g.Registration == Gridline {
		origin = "center"
	}
	fmt.Fprintf(bw, "ncols %d\nnrows %d\n", g.NX, g.NY)
	fmt.Fprintf(bw, "xll%s %s\nyll%s %s\n", origin, formatFloat(g.Region.XMin), origin, formatFloat(g.Region.YMin))
	fmt.Fprintf(bw, "cellsize %s\nNODATA_value %d\n", formatFloat(g.Spacing), defaultNoData)

	for row := g.NY - 1; row >= 0; row-- {
		for col := 0; col < g.NX; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			v := g.At(col, row)
			if math.IsNaN(v) {
				v = defaultNoData
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
