// ABOUTME: Tests for the display formatting helpers.
// ABOUTME: Covers rounding, sentinel handling, second/millisecond conversion, and digit grouping.
package format

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "absent", in: nil, want: Unknown},
		{name: "zero", in: f64(0), want: "0%"},
		{name: "one", in: f64(1), want: "100%"},
		{name: "rounds up", in: f64(0.826), want: "83%"},
		{name: "rounds down", in: f64(0.821), want: "82%"},
		{name: "ten percent", in: f64(0.1), want: "10%"},
		{name: "nan", in: f64(math.NaN()), want: Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.in))
		})
	}
}

func TestPercentMatchesRoundedHundredths(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		f := float64(i) / 1000
		want := int64(math.Round(f * 100))
		got := Percent(&f)
		assert.Equal(t, Int(intPtr(int(want)))+"%", got, "fraction %v", f)
	}
}

func intPtr(n int) *int { return &n }

func TestTimestampIn(t *testing.T) {
	utc := time.UTC

	assert.Equal(t, Unknown, TimestampIn(nil, utc))
	assert.Equal(t, Unknown, TimestampIn(f64(0), utc))
	assert.Equal(t, Unknown, TimestampIn(f64(math.Inf(1)), utc))

	// 2024-01-02T15:04:05Z in seconds, not milliseconds.
	assert.Equal(t, "1/2/2024, 3:04:05 PM", TimestampIn(f64(1704207845), utc))
	// Fractional seconds are truncated to the millisecond and do not change the second.
	assert.Equal(t, "1/2/2024, 3:04:05 PM", TimestampIn(f64(1704207845.9), utc))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{in: nil, want: Unknown},
		{in: f64(math.NaN()), want: Unknown},
		{in: f64(-5), want: "0s"},
		{in: f64(0), want: "0s"},
		{in: f64(59), want: "59s"},
		{in: f64(60), want: "1m 00s"},
		{in: f64(65), want: "1m 05s"},
		{in: f64(754.9), want: "12m 34s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.in))
	}
}

func TestDurationSplitsExactly(t *testing.T) {
	for s := 0; s < 7200; s += 7 {
		v := float64(s)
		got := Duration(&v)
		if s < 60 {
			assert.Equal(t, Int(intPtr(s))+"s", got)
			continue
		}
		var m, sec int
		n, err := fmt.Sscanf(got, "%dm %ds", &m, &sec)
		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, s, m*60+sec, "duration %q", got)
		assert.Regexp(t, `^\d+m \d{2}s$`, got)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, Unknown, Money(nil))
	assert.Equal(t, "$0", Money(f64(0)))
	assert.Equal(t, "$1,200", Money(f64(1200)))
	assert.Equal(t, "$1,350.5", Money(f64(1350.5)))
	assert.Equal(t, "$1,234,567", Money(f64(1234567)))
	assert.Equal(t, "$1,234.568", Money(f64(1234.5678)))
}

func TestSignedMoney(t *testing.T) {
	assert.Equal(t, Unknown, SignedMoney(nil))
	assert.Equal(t, "+$150", SignedMoney(f64(150)))
	assert.Equal(t, "-$40", SignedMoney(f64(-40)))
	assert.Equal(t, "$0", SignedMoney(f64(0)))
	assert.Equal(t, "+$1,500", SignedMoney(f64(1500)))
	assert.Equal(t, "+$150.1", SignedMoney(f64(1350.1-1200)))
	assert.Equal(t, "$0", SignedMoney(f64(-0.0001)))
}

func TestScalars(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, "true", Bool(&yes))
	assert.Equal(t, "false", Bool(&no))
	assert.Equal(t, Unknown, Bool(nil))

	assert.Equal(t, "120", Int(intPtr(120)))
	assert.Equal(t, Unknown, Int(nil))

	assert.Equal(t, "2.3", Number(f64(2.3)))
	assert.Equal(t, "3", Number(f64(3)))
	assert.Equal(t, Unknown, Number(nil))

	empty, text := "", "carrier accepted"
	assert.Equal(t, Unknown, Text(nil))
	assert.Equal(t, Unknown, Text(&empty))
	assert.Equal(t, "carrier accepted", Text(&text))
}
