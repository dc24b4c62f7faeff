package render

import (
	"strconv"
	"strings"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as unicode block characters scaled between the
// series minimum and maximum. A flat series sits on a middle block.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)

	var b strings.Builder
	top := float64(len(sparkBlocks) - 1)
	for _, v := range values {
		idx := len(sparkBlocks)/2 - 1
		if hi > lo {
			idx = int((v-lo)/(hi-lo)*top + 0.5)
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// SparklinePoints returns SVG polyline points fitting values into a
// width x height box with the maximum at the top. A single value is drawn
// as a flat line.
func SparklinePoints(values []float64, width, height float64) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	lo, hi := bounds(values)
	step := width / float64(len(values)-1)

	points := make([]string, len(values))
	for i, v := range values {
		y := height / 2
		if hi > lo {
			y = height - (v-lo)/(hi-lo)*height
		}
		points[i] = formatCoord(float64(i)*step) + "," + formatCoord(y)
	}
	return strings.Join(points, " ")
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
