// Package engine implements the deterministic auto-scheduler core: free
// interval synthesis, chunking, slot scoring, item prioritization, and the
// two-pass placement engine described in spec §4. Every exported entry
// point here is a pure function of its arguments; none read the clock,
// a random source, or any package-level mutable state (spec §5).
package engine

import (
	"sort"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

type busyInterval struct {
	start time.Time
	end   time.Time
}

// gapsInDay computes the ordered free intervals for a single local date,
// given the occupations and already-placed blocks whose start falls on
// that date (spec §4.2).
func gapsInDay(date time.Time, occupations []domain.Occupation, placed []domain.PlacedBlock, cfg domain.Config) []domain.FreeInterval {
	if domain.IsSunday(date) {
		return nil
	}

	workdayStart := domain.AtHour(date, float64(cfg.DayStartHour))
	workdayEnd := domain.AtHour(date, float64(cfg.DayEndHour))
	if domain.IsFriday(date) {
		workdayEnd = domain.AtHour(date, domain.FridayCloseHour)
	}
	if !workdayEnd.After(workdayStart) {
		return nil
	}

	busy := make([]busyInterval, 0, len(occupations)+len(placed))
	for _, occ := range occupations {
		if !occ.Valid() {
			continue
		}
		if domain.SameLocalDay(occ.Start, date) {
			busy = append(busy, busyInterval{start: occ.Start, end: occ.End})
		}
	}
	for _, b := range placed {
		if domain.SameLocalDay(b.Start, date) {
			busy = append(busy, busyInterval{start: b.Start, end: b.End})
		}
	}

	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].start.Before(busy[j].start)
	})

	gaps := make([]domain.FreeInterval, 0, len(busy)+1)
	cursor := workdayStart
	for _, b := range busy {
		if cursor.Before(b.start) {
			gaps = append(gaps, domain.FreeInterval{Start: cursor, End: b.start})
		}
		if b.end.After(cursor) {
			cursor = b.end
		}
	}
	if cursor.Before(workdayEnd) {
		gaps = append(gaps, domain.FreeInterval{Start: cursor, End: workdayEnd})
	}

	// Overlapping busy intervals collapse via the max-advance above, so a
	// gap can only ever be zero-length at this point if cursor == bound;
	// filter defensively, dropping any zero-length interval.
	out := gaps[:0]
	for _, g := range gaps {
		if g.End.After(g.Start) {
			out = append(out, g)
		}
	}
	return out
}
