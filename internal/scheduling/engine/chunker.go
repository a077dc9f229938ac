package engine

import (
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

const (
	// MinChunk is the minimum duration of a split chunk (spec §4.3).
	MinChunk = 30 * time.Minute
	// MaxChunk is the maximum duration of a split chunk (spec §4.3).
	MaxChunk = 120 * time.Minute
	// TargetChunk is the size the chunker aims for when splitting.
	TargetChunk = 90 * time.Minute
)

// Chunk is one segment of a (possibly split) item, with a day it prefers
// to land on (spec §4.3).
type Chunk struct {
	DurationMinutes int
	PreferredDay    time.Time
	ChunkIndex      int
	TotalChunks     int
}

// chunksFor splits item into one or more chunks, honoring split
// eligibility, the 30/120-minute bounds, the anti-cramming cap, and
// distribution across the days remaining before its deadline or the
// planning horizon (spec §4.3).
func chunksFor(item domain.Item, planningStart time.Time, deadlineOrHorizon time.Time) []Chunk {
	durationMin := item.DurationMinutes

	if durationMin <= 120 || !item.CanSplit {
		preferredDay := planningStart
		if item.IsRecurrenceInstance() && item.Deadline != nil {
			preferredDay = domain.StartOfLocalDay(*item.Deadline)
		}
		return []Chunk{{
			DurationMinutes: durationMin,
			PreferredDay:    preferredDay,
			ChunkIndex:      0,
			TotalChunks:     1,
		}}
	}

	nChunks := ceilDiv(durationMin, int(TargetChunk.Minutes()))

	startDay := planningStart
	deadlineDay := deadlineOrHorizon
	if item.IsRecurrenceInstance() && item.Deadline != nil {
		startDay = domain.StartOfLocalDay(*item.Deadline)
		deadlineDay = startDay
	}

	daysAvailable := domain.DaysUntil(deadlineOrHorizon, planningStart)
	if daysAvailable < 1 {
		daysAvailable = 1
	}
	chunksPerDay := ceilDiv(nChunks, daysAvailable)
	if chunksPerDay < 1 {
		chunksPerDay = 1
	}

	dueDateCap := durationMin / 2 // anti-cramming cap, spec §4.3 rule 2

	deadlineLocalDay := domain.StartOfLocalDay(deadlineDay)

	chunks := make([]Chunk, 0, nChunks)
	remaining := durationMin
	day := startDay
	emittedOnDeadlineDay := 0
	chunksEmittedToday := 0
	anyChunkEmitted := false

	for i := 0; i < nChunks; i++ {
		dur := int(TargetChunk.Minutes())
		if remaining < dur {
			dur = remaining
		}

		onDeadlineDay := domain.SameLocalDay(day, deadlineLocalDay)
		if onDeadlineDay && anyChunkEmitted && emittedOnDeadlineDay+dur > dueDateCap {
			candidate := domain.AddDays(day, -1)
			if !candidate.Before(planningStart) {
				day = candidate
				chunksEmittedToday = 0
				onDeadlineDay = domain.SameLocalDay(day, deadlineLocalDay)
			}
			// Can't step back past planningStart; accept the over-cap
			// emission on day rather than scheduling into the past.
		}

		chunks = append(chunks, Chunk{
			DurationMinutes: dur,
			PreferredDay:    day,
			ChunkIndex:      i,
			TotalChunks:     nChunks,
		})
		remaining -= dur
		anyChunkEmitted = true
		if onDeadlineDay {
			emittedOnDeadlineDay += dur
		}
		chunksEmittedToday++

		if chunksEmittedToday >= chunksPerDay && i < nChunks-1 {
			if day.Before(deadlineLocalDay) {
				day = domain.AddDays(day, 1)
			}
			chunksEmittedToday = 0
		}
	}

	// The target-sized split above can leave the final chunk under MinChunk
	// (e.g. 190min -> 90/90/10). Redistribute the shortfall from the
	// preceding chunk rather than emit an under-sized block (spec invariant 5).
	if len(chunks) >= 2 {
		last := &chunks[len(chunks)-1]
		if last.DurationMinutes > 0 && last.DurationMinutes < int(MinChunk.Minutes()) {
			prev := &chunks[len(chunks)-2]
			deficit := int(MinChunk.Minutes()) - last.DurationMinutes
			transfer := deficit
			if available := prev.DurationMinutes - int(MinChunk.Minutes()); transfer > available {
				transfer = available
			}
			if transfer > 0 {
				prev.DurationMinutes -= transfer
				last.DurationMinutes += transfer
			}
		}
	}

	return chunks
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
