package domain

// Config enumerates the scheduler's tunable options, all with the
// defaults specified in spec §3. Friday's 17:00 early close and Sunday's
// zero-length workday are fixed, not configurable (spec §3).
type Config struct {
	DayStartHour int // default 8
	DayEndHour   int // default 22

	// FamilyTimeStartHour is a decimal hour (17.5 means 17:30).
	FamilyTimeStartHour float64

	// DeepWorkHours and ShallowHours are half-open [start, end) decimal-hour
	// ranges used by the slot scorer's category/energy heuristic.
	DeepWorkHours  [2]float64 // default [8, 12)
	ShallowHours   [2]float64 // default [13, 15)

	PlanningHorizonDays int // default 7

	MaxItemsPerGoalPerDay int // default 3
}

// FridayCloseHour is the fixed early-close hour on Fridays (spec §3).
const FridayCloseHour = 17

// DefaultConfig returns the configuration described in spec §3.
func DefaultConfig() Config {
	return Config{
		DayStartHour:          8,
		DayEndHour:            22,
		FamilyTimeStartHour:   17.5,
		DeepWorkHours:         [2]float64{8, 12},
		ShallowHours:          [2]float64{13, 15},
		PlanningHorizonDays:   7,
		MaxItemsPerGoalPerDay: 3,
	}
}

// WithDefaults fills zero-valued fields with their spec defaults. The day
// bounds are defaulted as a pair, only when DayStartHour and DayEndHour
// are both zero. This lets a caller construct a partial
// Config{PlanningHorizonDays: 14} without reproducing every other default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.DayStartHour == 0 && c.DayEndHour == 0 {
		c.DayStartHour, c.DayEndHour = d.DayStartHour, d.DayEndHour
	}
	if c.FamilyTimeStartHour == 0 {
		c.FamilyTimeStartHour = d.FamilyTimeStartHour
	}
	if c.DeepWorkHours == [2]float64{} {
		c.DeepWorkHours = d.DeepWorkHours
	}
	if c.ShallowHours == [2]float64{} {
		c.ShallowHours = d.ShallowHours
	}
	if c.PlanningHorizonDays == 0 {
		c.PlanningHorizonDays = d.PlanningHorizonDays
	}
	if c.MaxItemsPerGoalPerDay == 0 {
		c.MaxItemsPerGoalPerDay = d.MaxItemsPerGoalPerDay
	}
	return c
}
