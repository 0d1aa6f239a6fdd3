// Package daymath resolves a TZDB day-of-month specifier ("8", "lastSun",
// "Sun>=8", "Sun<=25") to a concrete calendar date for one year and
// month, rolling over into the neighboring month when the search runs
// off either end.
package daymath

import (
	"fmt"
	"time"

	"github.com/dimensia/tzcore/tzdata"
)

// Resolve turns d into a concrete (year, month, day) for the given year
// and month, rolling forward or backward into a neighboring month when
// the matching weekday falls outside it (e.g. "lastSun" in a 28-day
// February, or "Sun>=25" in a 30-day month).
func Resolve(year int, month time.Month, d tzdata.Day) (int, time.Month, int) {
	switch d.Form {
	case tzdata.DayFormDayNum:
		return year, month, d.Num
	case tzdata.DayFormLast:
		return year, month, lastWeekdayOfMonth(year, month, d.Day)
	case tzdata.DayFormAfter:
		return nextWeekdayOnOrAfter(year, month, d.Num, d.Day)
	case tzdata.DayFormBefore:
		return lastWeekdayOnOrBefore(year, month, d.Num, d.Day)
	default:
		panic(fmt.Errorf("daymath: invalid DayForm %v", d.Form))
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func weekdayOf(year int, month time.Month, day int) time.Weekday {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
}

func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) int {
	day := daysIn(year, month)
	day -= int((weekdayOf(year, month, day) - weekday + 7) % 7)
	return day
}

// nextWeekdayOnOrAfter finds the first occurrence of weekday on or
// after day, carrying into the following month (and year) if day
// itself is past the end of month.
func nextWeekdayOnOrAfter(year int, month time.Month, day int, weekday time.Weekday) (int, time.Month, int) {
	for day > daysIn(year, month) {
		day -= daysIn(year, month)
		year, month = rollMonth(year, month, 1)
	}
	day += int((weekday - weekdayOf(year, month, day) + 7) % 7)
	for day > daysIn(year, month) {
		day -= daysIn(year, month)
		year, month = rollMonth(year, month, 1)
	}
	return year, month, day
}

// lastWeekdayOnOrBefore finds the last occurrence of weekday on or
// before day, carrying into the previous month (and year) if the
// search runs past the first of the month.
func lastWeekdayOnOrBefore(year int, month time.Month, day int, weekday time.Weekday) (int, time.Month, int) {
	for day < 1 {
		year, month = rollMonth(year, month, -1)
		day += daysIn(year, month)
	}
	day -= int((weekdayOf(year, month, day) - weekday + 7) % 7)
	for day < 1 {
		year, month = rollMonth(year, month, -1)
		day += daysIn(year, month)
	}
	return year, month, day
}

func rollMonth(year int, month time.Month, delta int) (int, time.Month) {
	m := int(month) - 1 + delta
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, time.Month(m + 1)
}
