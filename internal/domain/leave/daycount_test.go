package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCountDaysSameDayHalf(t *testing.T) {
	days := CountDays(date("2025-11-15"), date("2025-11-15"), HalfDayAM)
	assert.True(t, days.Equal(decimal.NewFromFloat(0.5)), "got %s", days)
}

func TestCountDaysSameDayFull(t *testing.T) {
	days := CountDays(date("2025-11-15"), date("2025-11-15"), "")
	assert.True(t, days.Equal(decimal.NewFromInt(1)), "got %s", days)
}

func TestCountDaysSkipsWeekend(t *testing.T) {
	// Sat 2025-11-15 through Mon 2025-11-17: only Monday is a business day.
	days := CountDays(date("2025-11-15"), date("2025-11-17"), "")
	assert.True(t, days.Equal(decimal.NewFromInt(1)), "got %s", days)
}

func TestCountDaysFullWeek(t *testing.T) {
	// Mon 2025-11-10 through Fri 2025-11-14.
	days := CountDays(date("2025-11-10"), date("2025-11-14"), "")
	assert.True(t, days.Equal(decimal.NewFromInt(5)), "got %s", days)
}

func TestCountDaysMultiDayHalfMarker(t *testing.T) {
	days := CountDays(date("2025-11-10"), date("2025-11-14"), HalfDayPM)
	assert.True(t, days.Equal(decimal.NewFromFloat(4.5)), "got %s", days)
}

func TestCountDaysWeekendOnlySpan(t *testing.T) {
	// Sat 2025-11-15 through Sun 2025-11-16 has no business days.
	days := CountDays(date("2025-11-15"), date("2025-11-16"), "")
	assert.True(t, days.IsZero(), "got %s", days)
}

func TestCountDaysWeekendOnlySpanHalfMarker(t *testing.T) {
	// The half-day adjustment clamps at zero; it must never go negative.
	days := CountDays(date("2025-11-15"), date("2025-11-16"), HalfDayAM)
	assert.True(t, days.IsZero(), "got %s", days)
}

func TestCountDaysSpanningTwoWeeks(t *testing.T) {
	// Fri 2025-11-14 through Tue 2025-11-18: Fri, Mon, Tue.
	days := CountDays(date("2025-11-14"), date("2025-11-18"), "")
	assert.True(t, days.Equal(decimal.NewFromInt(3)), "got %s", days)
}

func TestNoticeBusinessDays(t *testing.T) {
	cases := []struct {
		name  string
		from  string
		start string
		want  int
	}{
		{"same day", "2025-11-10", "2025-11-10", 0},
		{"next business day", "2025-11-10", "2025-11-11", 1},
		{"monday to friday", "2025-11-10", "2025-11-14", 4},
		{"over a weekend", "2025-11-14", "2025-11-17", 1},
		{"start in the past", "2025-11-14", "2025-11-10", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NoticeBusinessDays(date(tc.from), date(tc.start)))
		})
	}
}
