package figure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// GMT colour names missing from the SVG set.
var extraColors = map[string]color.RGBA{
	"lightbrown": {R: 200, G: 160, B: 115, A: 255},
	"darkbrown":  {R: 101, G: 67, B: 33, A: 255},
}

// ParseColor accepts "#rrggbb", GMT "r/g/b" triplets and colour names.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.Black, nil
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return nil, fmt.Errorf("bad hex colour %q", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad hex colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case strings.Count(s, "/") == 2:
		parts := strings.Split(s, "/")
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(p, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("bad colour triplet %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
	}
	if c, ok := extraColors[s]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}
