package region

import "math"

var squareSpecialCases = map[int][2]int{
	1: {1, 1},
	2: {1, 2},
	3: {2, 2},
	4: {2, 2},
	5: {2, 3},
	6: {2, 3},
	7: {3, 3},
	8: {3, 3},
	9: {3, 3},
}

// SquareSubplots returns a rows x cols arrangement for n panels that is as
// close to square as looks good. rows <= cols.
func SquareSubplots(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	if rc, ok := squareSpecialCases[n]; ok {
		return rc[0], rc[1]
	}

	sqrtf := math.Sqrt(float64(n))
	s := int(math.Ceil(sqrtf))

	var x, y int
	switch {
	case float64(s) == sqrtf:
		x, y = s, s
	case n <= s*(s-1):
		x, y = s, s-1
	case s%2 == 0 && n%2 == 1:
		// keeps an odd panel count horizontally symmetrical
		x, y = s+1, s-1
	default:
		x, y = s, s
	}

	return min(x, y), max(x, y)
}
