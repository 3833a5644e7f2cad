package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

var halfDayValue = decimal.NewFromFloat(0.5)

// CountDays computes the leave days a request consumes. The same function
// runs at validation time and at deduction time so the two can never
// disagree. Dates are compared at day granularity.
func CountDays(start, end time.Time, halfDay string) decimal.Decimal {
	if sameDay(start, end) {
		if halfDay != "" {
			return halfDayValue
		}
		return decimal.NewFromInt(1)
	}

	days := decimal.NewFromInt(int64(businessDaysInclusive(start, end)))
	if halfDay != "" {
		days = days.Sub(halfDayValue)
	}
	// A weekend-only span has no business days; the half-day adjustment must
	// not take the count below zero, or a deduction would become a credit.
	if days.IsNegative() {
		return decimal.Zero
	}
	return days
}

// NoticeBusinessDays counts business days after `from` up to and including
// `start`, the notice an employee gives before leave begins.
func NoticeBusinessDays(from, start time.Time) int {
	fromDay := truncateDay(from)
	startDay := truncateDay(start)
	if !startDay.After(fromDay) {
		return 0
	}

	count := 0
	for d := fromDay.AddDate(0, 0, 1); !d.After(startDay); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			count++
		}
	}
	return count
}

func businessDaysInclusive(start, end time.Time) int {
	startDay := truncateDay(start)
	endDay := truncateDay(end)
	count := 0
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			count++
		}
	}
	return count
}

func isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
