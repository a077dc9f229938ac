// Package habits turns a recurring habit's RFC 5545 recurrence rule into
// concrete schedulable items for a planning horizon. The scheduling core
// itself has no notion of recurrence — it only sees items with
// RecurrenceParentID set, one per occurrence (spec §3 Non-goals:
// materialized habit instances appear as ordinary schedulable items).
package habits

import (
	"errors"
	"time"

	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

var (
	ErrHabitEmptyName = errors.New("habit name cannot be empty")
	ErrHabitBadRRule  = errors.New("habit recurrence rule is invalid")
)

// Habit is a recurring activity the user wants materialized onto the
// schedule as individual Item occurrences.
type Habit struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Category string

	// RRule is an RFC 5545 recurrence rule string, e.g.
	// "FREQ=DAILY;INTERVAL=1" or "FREQ=WEEKLY;BYDAY=MO,WE,FR".
	RRule string

	// DTStart anchors the recurrence; occurrences before this instant
	// never materialize.
	DTStart time.Time

	DurationMinutes int
	PreferredHour   float64 // decimal hour (e.g. 7.5 = 7:30am); each instance's deadline-of-day
	CanSplit        bool
	Archived        bool
}

// NewHabit validates and constructs a Habit, rejecting an unparseable
// recurrence rule up front rather than deferring the error to
// materialization time.
func NewHabit(userID uuid.UUID, name, rruleString string, dtstart time.Time, durationMinutes int) (*Habit, error) {
	if name == "" {
		return nil, ErrHabitEmptyName
	}
	if _, err := rrule.StrToRRule(rruleString); err != nil {
		return nil, ErrHabitBadRRule
	}
	return &Habit{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		RRule:           rruleString,
		DTStart:         dtstart,
		DurationMinutes: durationMinutes,
		PreferredHour:   9,
	}, nil
}

// Materialize expands h's recurrence rule across [horizonStart,
// horizonEnd) and returns one scheduling.Item per occurrence, each
// deadlined at h.PreferredHour on its occurrence day so the
// chunker's recurrence-instance rule (spec §4.3 rule 1) pins it to that
// day instead of letting it drift earlier in the horizon.
func (h *Habit) Materialize(horizonStart, horizonEnd time.Time) ([]scheduling.Item, error) {
	if h.Archived {
		return nil, nil
	}

	rule, err := rrule.StrToRRule(h.RRule)
	if err != nil {
		return nil, ErrHabitBadRRule
	}
	rule.DTStart(h.DTStart)

	occurrences := rule.Between(horizonStart, horizonEnd, true)
	items := make([]scheduling.Item, 0, len(occurrences))

	for _, occ := range occurrences {
		if !occ.Before(horizonEnd) {
			continue
		}
		deadline := occurrenceDeadline(occ, h.PreferredHour)
		items = append(items, scheduling.Item{
			ID:                 occurrenceID(h.ID, occ),
			Category:           h.Category,
			Title:              h.Name,
			DurationMinutes:    h.DurationMinutes,
			Deadline:           &deadline,
			Tier:               scheduling.TierCore,
			CanSplit:           h.CanSplit,
			RecurrenceParentID: h.ID.String(),
		})
	}
	return items, nil
}

// occurrenceID derives a stable, deterministic item ID for a single
// occurrence so re-materializing the same horizon twice (e.g. a daily
// cron re-run) produces the same IDs rather than duplicate items.
func occurrenceID(habitID uuid.UUID, occurrence time.Time) string {
	return habitID.String() + "#" + occurrence.Format("2006-01-02")
}

func occurrenceDeadline(occurrence time.Time, preferredHour float64) time.Time {
	return scheduling.AtHour(occurrence, preferredHour)
}
