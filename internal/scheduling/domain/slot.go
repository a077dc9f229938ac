package domain

import "time"

// FreeInterval is an ephemeral gap in a day's workday, synthesized fresh
// for each (date, current placements) pair by the free-interval
// synthesiser (spec §4.2). It is a half-open interval [Start, End).
type FreeInterval struct {
	Start time.Time
	End   time.Time
}

// DurationMinutes returns the gap's length in whole minutes.
func (fi FreeInterval) DurationMinutes() int {
	return int(fi.End.Sub(fi.Start).Minutes())
}

// StartHour is the decimal hour-of-day of the gap's start, used to
// classify it as "regular" or "family time" (spec §4.6).
func (fi FreeInterval) StartHour() float64 {
	return DecimalHour(fi.Start)
}
