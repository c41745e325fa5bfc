package polar

import (
	"fmt"
	"math"
	"strconv"
)

// DD2DMS formats decimal degrees as "D:M:S". Seconds keep their fractional part.
func DD2DMS(dd float64) string {
	negative := dd < 0
	dd = math.Abs(dd)

	totalSeconds := dd * 3600
	minutes := math.Floor(totalSeconds / 60)
	seconds := totalSeconds - minutes*60
	degrees := math.Floor(minutes / 60)
	minutes -= degrees * 60

	if negative {
		degrees = -degrees
	}
	return fmt.Sprintf("%d:%d:%s", int(degrees), int(minutes), strconv.FormatFloat(seconds, 'f', -1, 64))
}
