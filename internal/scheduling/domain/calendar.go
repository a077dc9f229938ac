package domain

import (
	"math"
	"time"
)

// StartOfLocalDay normalizes t to midnight in its own location, which is
// the ambient local timezone of the invoking process (spec §4.1: the core
// does not convert timezones; it is correct for a single-user,
// single-timezone planner).
func StartOfLocalDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DecimalHour returns the hour-of-day of t as a fractional number, e.g.
// 17:30 -> 17.5.
func DecimalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// AtHour returns the instant on date's local day at the given decimal
// hour.
func AtHour(date time.Time, hour float64) time.Time {
	day := StartOfLocalDay(date)
	minutes := int(math.Round(hour * 60))
	return day.Add(time.Duration(minutes) * time.Minute)
}

// IsSunday reports whether t's local day-of-week is Sunday.
func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// IsFriday reports whether t's local day-of-week is Friday.
func IsFriday(t time.Time) bool {
	return t.Weekday() == time.Friday
}

// SameLocalDay reports whether a and b fall on the same local calendar
// date.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntil returns the ceiling of the fractional number of days between
// from and target, i.e. how many local-day boundaries must be crossed to
// reach target starting at from. A target before or on the same local day
// as from yields 0 (or negative if target's local day precedes from's).
func DaysUntil(target, from time.Time) int {
	fromDay := StartOfLocalDay(from)
	targetDay := StartOfLocalDay(target)
	diff := targetDay.Sub(fromDay)
	// Rounding keeps 23h and 25h daylight-saving days counting as one day.
	return int(math.Round(diff.Hours() / 24))
}

// AddDays returns t shifted forward by n local calendar days, preserving
// time-of-day.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
