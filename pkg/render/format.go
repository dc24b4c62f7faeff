package render

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatValue rounds to a whole number with thousands separators: 41,000.
func FormatValue(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatDelta renders a signed two-decimal percentage, or "" for no change data.
func FormatDelta(pct *float64) string {
	if pct == nil {
		return ""
	}
	return fmt.Sprintf("%+.2f%%", *pct)
}

// DeltaClass is "up", "down" or "flat"; "" when there is no change data.
func DeltaClass(pct *float64) string {
	switch {
	case pct == nil:
		return ""
	case *pct > 0:
		return "up"
	case *pct < 0:
		return "down"
	default:
		return "flat"
	}
}
