// ABOUTME: Display formatting for raw dashboard values: fractions, unix timestamps, durations, money.
// ABOUTME: Every function is total and maps absent or non-finite input to the Unknown sentinel.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Unknown is the sentinel shown for absent, null, or unusable values.
const Unknown = "—"

// TimestampLayout is the date-time layout used by Timestamp.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// usable reports whether v is present and finite.
func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Percent renders a fraction as a whole-number percentage ("0.82" -> "82%").
func Percent(fraction *float64) string {
	if !usable(fraction) {
		return Unknown
	}
	return fmt.Sprintf("%d%%", int64(math.Round(*fraction*100)))
}

// Timestamp renders unix seconds as a local date-time string.
// Zero is treated as absent.
func Timestamp(unixSeconds *float64) string {
	return TimestampIn(unixSeconds, time.Local)
}

// TimestampIn is Timestamp with an explicit location.
func TimestampIn(unixSeconds *float64, loc *time.Location) string {
	if !usable(unixSeconds) || *unixSeconds == 0 {
		return Unknown
	}
	if loc == nil {
		loc = time.Local
	}
	ms := int64(math.Floor(*unixSeconds * 1000))
	return time.UnixMilli(ms).In(loc).Format(TimestampLayout)
}

// Duration renders a second count as "Xm SSs", or "Ss" under a minute.
// Negative input is clamped to zero.
func Duration(seconds *float64) string {
	if !usable(seconds) {
		return Unknown
	}
	total := int64(math.Floor(math.Max(*seconds, 0)))
	minutes := total / 60
	secs := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %02ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// Money renders a monetary amount with grouped digits ("1350" -> "$1,350").
func Money(value *float64) string {
	if !usable(value) {
		return Unknown
	}
	return "$" + humanize.Commaf(roundCents(*value))
}

// roundCents rounds to at most three fraction digits.
func roundCents(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// SignedMoney renders a monetary difference with an explicit sign
// ("+$150", "-$40"). Zero renders as "$0".
func SignedMoney(value *float64) string {
	if !usable(value) {
		return Unknown
	}
	v := roundCents(*value)
	switch {
	case v > 0:
		return "+$" + humanize.Commaf(v)
	case v < 0:
		return "-$" + humanize.Commaf(-v)
	default:
		return "$0"
	}
}

// Bool renders a tri-state flag as "true", "false", or Unknown.
func Bool(b *bool) string {
	if b == nil {
		return Unknown
	}
	return strconv.FormatBool(*b)
}

// Int renders an optional integer.
func Int(n *int) string {
	if n == nil {
		return Unknown
	}
	return strconv.Itoa(*n)
}

// Number renders an optional number in its shortest decimal form ("2.3").
func Number(v *float64) string {
	if !usable(v) {
		return Unknown
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Text renders optional free text; blank text is treated as absent.
func Text(s *string) string {
	if s == nil || *s == "" {
		return Unknown
	}
	return *s
}
