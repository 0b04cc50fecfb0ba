// Package engine implements the pure financial projection core: recurring
// event expansion, day-by-day cashflow simulation, and the safe daily
// spending limit. Every function here is deterministic and side-effect-free;
// reference dates are always passed in, never read from the clock.
package engine

import "time"

// NormalizeDate strips the time-of-day component, returning midnight UTC of
// the same calendar day. All engine entry points normalize their date inputs
// with this before comparison or arithmetic.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(NormalizeDate(b).Sub(NormalizeDate(a)).Hours() / 24)
}

// EndOfMonth returns the last calendar day of t's month.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	// Day zero of the following month is the last day of this one.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthClamped advances a date by one calendar month, clamping to the last
// valid day when the target month is shorter (Jan 31 → Feb 29 in a leap year,
// Feb 28 otherwise). time.AddDate cannot be used here: it normalizes Feb 31
// into early March instead of clamping.
func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	m++
	if m > time.December {
		m = time.January
		y++
	}
	if dim := daysInMonth(y, m); d > dim {
		d = dim
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addYearClamped advances a date by one calendar year, clamping Feb 29 to
// Feb 28 when the target year is not a leap year.
func addYearClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	y++
	if dim := daysInMonth(y, m); d > dim {
		d = dim
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
